package booking

import (
	"context"

	"github.com/rs/zerolog"

	domain "github.com/trichbarbershop/barber-queue/internal/domain/booking"
	"github.com/trichbarbershop/barber-queue/internal/httperr"
	"github.com/trichbarbershop/barber-queue/internal/models"
)

type ListEntries struct {
	repo     domain.Repository
	elevated bool
	logger   zerolog.Logger
}

func NewListEntries(
	repo domain.Repository,
	elevated bool,
	logger zerolog.Logger,
) *ListEntries {
	return &ListEntries{
		repo:     repo,
		elevated: elevated,
		logger:   logger,
	}
}

// Execute returns the queue, newest first. The elevated path comes
// first so every submitter sees the same global queue; when it is
// unavailable or fails, the session-scoped path returns whatever the
// caller is allowed to see. Only after both have been tried is a fetch
// failure reported.
func (uc *ListEntries) Execute(
	ctx context.Context,
	ownerID string,
) ([]models.BookingEntry, error) {

	var elevatedErr error
	if uc.elevated {
		entries, err := uc.repo.ListEntries(ctx)
		if err == nil {
			return entries, nil
		}
		elevatedErr = err
		uc.logger.Warn().Err(err).Msg("elevated list failed, falling back to session scope")
	}

	entries, err := uc.repo.ListEntriesForOwner(ctx, ownerID)
	if err == nil {
		return entries, nil
	}

	uc.logger.Error().Err(err).AnErr("elevated_err", elevatedErr).
		Msg("booking entry list failed on both paths")
	return nil, httperr.ErrBusiness(httperr.CodeFetchFailed)
}
