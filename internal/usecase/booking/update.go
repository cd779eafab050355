package booking

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/trichbarbershop/barber-queue/internal/audit"
	domain "github.com/trichbarbershop/barber-queue/internal/domain/booking"
	"github.com/trichbarbershop/barber-queue/internal/httperr"
	"github.com/trichbarbershop/barber-queue/internal/identity"
	"github.com/trichbarbershop/barber-queue/internal/models"
	"github.com/trichbarbershop/barber-queue/internal/realtime"
	"github.com/trichbarbershop/barber-queue/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

// UpdateEntryInput is the typed PATCH schema. ETA fields are absent on
// purpose: the served-time window is server-derived and never
// client-suppliable.
type UpdateEntryInput struct {
	Phone       *string
	FullName    *string
	Service     *string
	ServiceTime *string
	Status      *string
}

func (in UpdateEntryInput) empty() bool {
	return in.Phone == nil &&
		in.FullName == nil &&
		in.Service == nil &&
		in.ServiceTime == nil &&
		in.Status == nil
}

// ======================================================
// USE CASE
// ======================================================

type UpdateEntry struct {
	repo     domain.Repository
	resolver *identity.Resolver
	broker   realtime.Broker
	audit    *audit.Dispatcher
	elevated bool
	logger   zerolog.Logger
}

func NewUpdateEntry(
	repo domain.Repository,
	resolver *identity.Resolver,
	broker realtime.Broker,
	auditd *audit.Dispatcher,
	elevated bool,
	logger zerolog.Logger,
) *UpdateEntry {
	return &UpdateEntry{
		repo:     repo,
		resolver: resolver,
		broker:   broker,
		audit:    auditd,
		elevated: elevated,
		logger:   logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateEntry) Execute(
	ctx context.Context,
	sess identity.Session,
	entryID string,
	in UpdateEntryInput,
) (*models.BookingEntry, error) {

	id, err := uc.resolver.Resolve(ctx, sess)
	if err != nil {
		return nil, err
	}

	if !id.IsBarber() {
		// Status changes are barber-only; for everyone else the field
		// is silently dropped, not rejected.
		in.Status = nil
	}

	if in.empty() {
		return nil, httperr.ErrBusiness("invalid_request")
	}

	fields := map[string]any{}
	if in.Phone != nil {
		fields["phone"] = *in.Phone
	}
	if in.FullName != nil {
		fields["full_name"] = *in.FullName
	}
	if in.Service != nil {
		fields["service"] = *in.Service
	}
	if in.ServiceTime != nil {
		when, parseErr := timezone.ParseWallClock(*in.ServiceTime)
		if parseErr != nil {
			return nil, httperr.ErrBusiness("invalid_request")
		}
		fields["service_time"] = when
	}

	served := false
	if in.Status != nil {
		next := domain.Status(*in.Status)
		if err := domain.CanSetStatus(id.Role, next); err != nil {
			return nil, err
		}
		fields["status"] = string(next)

		if next == domain.StatusAtServed {
			// The ETA window is overwritten to the transition time,
			// regardless of anything the client sent.
			start, end := domain.ETAWindow(timezone.Now())
			fields["eta_start"] = start
			fields["eta_end"] = end
			served = true
		}
	}

	var updated *models.BookingEntry
	if id.IsBarber() && uc.elevated {
		updated, err = uc.repo.UpdateEntry(ctx, entryID, fields)
	} else {
		updated, err = uc.repo.UpdateOwnedEntry(ctx, entryID, id.UserID, fields)
	}

	if err != nil {
		if errors.Is(err, domain.ErrNoRows) {
			// Absent and not-owned are deliberately the same answer.
			return nil, httperr.ErrBusiness(httperr.CodeNotFoundOrForbidden)
		}
		uc.logger.Error().Err(err).Str("entry_id", entryID).Msg("booking entry update failed")
		return nil, httperr.ErrBusiness(httperr.CodeUpdateFailed)
	}

	if err := uc.broker.Publish(ctx, realtime.ChangeEvent{
		Type: realtime.EventUpdate,
		New:  updated,
	}); err != nil {
		uc.logger.Warn().Err(err).Str("entry_id", entryID).
			Msg("failed to publish update event")
	}

	action := "entry_updated"
	if served {
		action = "entry_served"
	}
	uc.audit.Dispatch(audit.Event{
		UserID:   &id.UserID,
		Action:   action,
		Entity:   "booking_entry",
		EntityID: &updated.ID,
	})

	return updated, nil
}
