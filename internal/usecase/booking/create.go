package booking

import (
	"context"

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

type CreateEntryInput struct {
	Phone    string
	FullName string

	// Service arrives comma-joined from the booking form.
	Service string
	Barber  string

	// ServiceTime is a wall-clock local datetime without offset.
	ServiceTime string
}

// ======================================================
// USE CASE
// ======================================================

type CreateEntry struct {
	repo     domain.Repository
	resolver *identity.Resolver
	broker   realtime.Broker
	audit    *audit.Dispatcher
	logger   zerolog.Logger
}

func NewCreateEntry(
	repo domain.Repository,
	resolver *identity.Resolver,
	broker realtime.Broker,
	auditd *audit.Dispatcher,
	logger zerolog.Logger,
) *CreateEntry {
	return &CreateEntry{
		repo:     repo,
		resolver: resolver,
		broker:   broker,
		audit:    auditd,
		logger:   logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateEntry) Execute(
	ctx context.Context,
	sess identity.Session,
	in CreateEntryInput,
) error {

	// --------------------------------------------------
	// Identity + role (profile upserted on demand)
	// --------------------------------------------------
	id, err := uc.resolver.ResolveEnsuringProfile(ctx, sess)
	if err != nil {
		return err
	}

	entry := &models.BookingEntry{
		OwnerID:  id.UserID,
		FullName: in.FullName,
		Phone:    in.Phone,
		Service:  in.Service,
		Barber:   in.Barber,
		Type:     string(domain.DeriveType(id.Role)),
		Status:   string(domain.InitialStatus()),
	}

	// --------------------------------------------------
	// Requested time + ETA window
	// --------------------------------------------------
	if in.ServiceTime != "" {
		when, parseErr := timezone.ParseWallClock(in.ServiceTime)
		if parseErr != nil {
			// Unparseable times are skipped silently; the entry is
			// still queued, just without an ETA.
			uc.logger.Debug().Str("service_time", in.ServiceTime).
				Msg("skipping unparseable service_time")
		} else {
			entry.ServiceTime = &when
			if !id.IsBarber() {
				start, end := domain.ETAWindow(when)
				entry.EtaStart = &start
				entry.EtaEnd = &end
			}
		}
	}

	// --------------------------------------------------
	// Single atomic insert
	// --------------------------------------------------
	if err := uc.repo.CreateEntry(ctx, entry); err != nil {
		uc.logger.Error().Err(err).Msg("booking entry insert failed")
		return httperr.ErrBusiness(httperr.CodeInsertFailed)
	}

	if err := uc.broker.Publish(ctx, realtime.ChangeEvent{
		Type: realtime.EventInsert,
		New:  entry,
	}); err != nil {
		uc.logger.Warn().Err(err).Str("entry_id", entry.ID).
			Msg("failed to publish insert event")
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &id.UserID,
		Action:   "entry_created",
		Entity:   "booking_entry",
		EntityID: &entry.ID,
	})

	return nil
}
