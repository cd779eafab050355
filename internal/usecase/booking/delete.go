package booking

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/trichbarbershop/barber-queue/internal/audit"
	domain "github.com/trichbarbershop/barber-queue/internal/domain/booking"
	"github.com/trichbarbershop/barber-queue/internal/httperr"
	"github.com/trichbarbershop/barber-queue/internal/identity"
	"github.com/trichbarbershop/barber-queue/internal/realtime"
)

type DeleteEntry struct {
	repo     domain.Repository
	resolver *identity.Resolver
	broker   realtime.Broker
	audit    *audit.Dispatcher
	logger   zerolog.Logger
}

func NewDeleteEntry(
	repo domain.Repository,
	resolver *identity.Resolver,
	broker realtime.Broker,
	auditd *audit.Dispatcher,
	logger zerolog.Logger,
) *DeleteEntry {
	return &DeleteEntry{
		repo:     repo,
		resolver: resolver,
		broker:   broker,
		audit:    auditd,
		logger:   logger,
	}
}

// Execute removes an entry. Barber-only; deletion is physical and not
// ownership-gated, a barber may clear anyone's entry.
func (uc *DeleteEntry) Execute(
	ctx context.Context,
	sess identity.Session,
	entryID string,
) error {

	id, err := uc.resolver.Resolve(ctx, sess)
	if err != nil {
		return err
	}

	// Confirm existence before the role check so the 404 is accurate.
	existing, err := uc.repo.GetEntry(ctx, entryID)
	if err != nil {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if !id.IsBarber() {
		return httperr.ErrBusiness(httperr.CodeForbidden)
	}

	if err := uc.repo.DeleteEntry(ctx, entryID); err != nil {
		if errors.Is(err, domain.ErrNoRows) {
			return httperr.ErrBusiness(httperr.CodeNotFound)
		}
		uc.logger.Error().Err(err).Str("entry_id", entryID).Msg("booking entry delete failed")
		return httperr.ErrBusiness(httperr.CodeDeleteFailed)
	}

	if err := uc.broker.Publish(ctx, realtime.ChangeEvent{
		Type: realtime.EventDelete,
		Old:  existing,
	}); err != nil {
		uc.logger.Warn().Err(err).Str("entry_id", entryID).
			Msg("failed to publish delete event")
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &id.UserID,
		Action:   "entry_deleted",
		Entity:   "booking_entry",
		EntityID: &entryID,
	})

	return nil
}
