package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trichbarbershop/barber-queue/internal/audit"
	dbpkg "github.com/trichbarbershop/barber-queue/internal/db"
	domain "github.com/trichbarbershop/barber-queue/internal/domain/booking"
	"github.com/trichbarbershop/barber-queue/internal/httperr"
	"github.com/trichbarbershop/barber-queue/internal/identity"
	infraRepo "github.com/trichbarbershop/barber-queue/internal/infra/repository"
	"github.com/trichbarbershop/barber-queue/internal/models"
	"github.com/trichbarbershop/barber-queue/internal/realtime"
	"github.com/trichbarbershop/barber-queue/internal/timezone"
)

// ======================================================
// FIXTURE
// ======================================================

type env struct {
	db     *gorm.DB
	repo   *infraRepo.BookingGormRepository
	broker *realtime.MemoryBroker
	auditd *audit.Dispatcher
}

func setupEnv(t *testing.T) *env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	return &env{
		db:     db,
		repo:   infraRepo.NewBookingGormRepository(db),
		broker: realtime.NewMemoryBroker(zerolog.Nop()),
		auditd: audit.NewDispatcher(audit.New(db), zerolog.Nop()),
	}
}

func (e *env) resolver(elevated bool) *identity.Resolver {
	return identity.NewResolver(e.repo, elevated, zerolog.Nop())
}

func (e *env) seedProfile(t *testing.T, id, role string) identity.Session {
	t.Helper()
	require.NoError(t, e.db.Create(&models.Profile{
		ID:    id,
		Email: id + "@test.local",
		Role:  role,
	}).Error)
	return identity.Session{UserID: id, Email: id + "@test.local"}
}

func (e *env) seedEntry(t *testing.T, ownerID string) *models.BookingEntry {
	t.Helper()
	entry := &models.BookingEntry{
		OwnerID:  ownerID,
		FullName: "Seeded",
		Type:     "book",
		Status:   "at queue",
	}
	require.NoError(t, e.repo.CreateEntry(context.Background(), entry))
	return entry
}

// ======================================================
// CREATE
// ======================================================

func TestCreateEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("customer booking gets type book and an ETA window", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "cust1", "")
		uc := NewCreateEntry(e.repo, e.resolver(true), e.broker, e.auditd, zerolog.Nop())

		err := uc.Execute(ctx, sess, CreateEntryInput{
			FullName:    "Ana",
			Phone:       "628111",
			Service:     "Creambath, Mask Off",
			Barber:      "Dimas",
			ServiceTime: "2025-03-14T10:00:00",
		})
		require.NoError(t, err)

		rows, err := e.repo.ListEntries(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)

		got := rows[0]
		assert.Equal(t, "book", got.Type)
		assert.Equal(t, "at queue", got.Status)
		assert.Equal(t, "cust1", got.OwnerID)

		want, _ := timezone.ParseWallClock("2025-03-14T10:00:00")
		require.NotNil(t, got.ServiceTime)
		require.NotNil(t, got.EtaStart)
		require.NotNil(t, got.EtaEnd)
		assert.True(t, got.EtaStart.Equal(want))
		assert.Equal(t, 30*time.Minute, got.EtaEnd.Sub(*got.EtaStart))
	})

	t.Run("barber submission is a walk-in without ETA", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "barb1", "barber")
		uc := NewCreateEntry(e.repo, e.resolver(true), e.broker, e.auditd, zerolog.Nop())

		err := uc.Execute(ctx, sess, CreateEntryInput{
			FullName:    "Walk In Client",
			ServiceTime: "2025-03-14T11:00:00",
		})
		require.NoError(t, err)

		rows, _ := e.repo.ListEntries(ctx)
		require.Len(t, rows, 1)
		assert.Equal(t, "walk in", rows[0].Type)
		assert.NotNil(t, rows[0].ServiceTime)
		assert.Nil(t, rows[0].EtaStart)
		assert.Nil(t, rows[0].EtaEnd)
	})

	t.Run("unparseable service_time still queues the entry", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "cust2", "")
		uc := NewCreateEntry(e.repo, e.resolver(true), e.broker, e.auditd, zerolog.Nop())

		err := uc.Execute(ctx, sess, CreateEntryInput{
			FullName:    "Ana",
			ServiceTime: "next tuesday",
		})
		require.NoError(t, err)

		rows, _ := e.repo.ListEntries(ctx)
		require.Len(t, rows, 1)
		assert.Nil(t, rows[0].ServiceTime)
		assert.Nil(t, rows[0].EtaStart)
	})

	t.Run("provisions a missing profile before inserting", func(t *testing.T) {
		e := setupEnv(t)
		uc := NewCreateEntry(e.repo, e.resolver(true), e.broker, e.auditd, zerolog.Nop())

		sess := identity.Session{UserID: "fresh", Email: "fresh@test.local", FullName: "Fresh"}
		require.NoError(t, uc.Execute(ctx, sess, CreateEntryInput{FullName: "Fresh"}))

		profile, err := e.repo.GetProfile(ctx, "fresh")
		require.NoError(t, err)
		assert.Equal(t, "fresh@test.local", profile.Email)
	})

	t.Run("anonymous caller is rejected", func(t *testing.T) {
		e := setupEnv(t)
		uc := NewCreateEntry(e.repo, e.resolver(true), e.broker, e.auditd, zerolog.Nop())

		err := uc.Execute(ctx, identity.Session{}, CreateEntryInput{FullName: "X"})
		assert.True(t, httperr.IsBusiness(err, httperr.CodeUnauthorized))
	})

	t.Run("publishes an insert event", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "cust3", "")
		uc := NewCreateEntry(e.repo, e.resolver(true), e.broker, e.auditd, zerolog.Nop())

		sub, err := e.broker.Subscribe(ctx)
		require.NoError(t, err)
		defer sub.Close()

		require.NoError(t, uc.Execute(ctx, sess, CreateEntryInput{FullName: "Ana"}))

		select {
		case ev := <-sub.Events():
			assert.Equal(t, realtime.EventInsert, ev.Type)
			require.NotNil(t, ev.New)
			assert.Equal(t, "cust3", ev.New.OwnerID)
		case <-time.After(time.Second):
			t.Fatal("insert event not published")
		}
	})
}

// ======================================================
// UPDATE
// ======================================================

func TestUpdateEntry(t *testing.T) {
	ctx := context.Background()
	str := func(s string) *string { return &s }

	t.Run("owner updates own entry", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "cust1", "")
		entry := e.seedEntry(t, "cust1")
		uc := NewUpdateEntry(e.repo, e.resolver(false), e.broker, e.auditd, false, zerolog.Nop())

		got, err := uc.Execute(ctx, sess, entry.ID, UpdateEntryInput{Phone: str("628999")})
		require.NoError(t, err)
		assert.Equal(t, "628999", got.Phone)
	})

	t.Run("foreign rows read as not found", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "cust1", "")
		entry := e.seedEntry(t, "someone-else")
		uc := NewUpdateEntry(e.repo, e.resolver(false), e.broker, e.auditd, false, zerolog.Nop())

		_, err := uc.Execute(ctx, sess, entry.ID, UpdateEntryInput{Phone: str("1")})
		assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFoundOrForbidden))
	})

	t.Run("status alone from a customer is an empty update", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "cust1", "")
		entry := e.seedEntry(t, "cust1")
		uc := NewUpdateEntry(e.repo, e.resolver(false), e.broker, e.auditd, false, zerolog.Nop())

		_, err := uc.Execute(ctx, sess, entry.ID, UpdateEntryInput{Status: str("at served")})
		assert.True(t, httperr.IsBusiness(err, "invalid_request"))
	})

	t.Run("customer status rider is stripped, not rejected", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "cust1", "")
		entry := e.seedEntry(t, "cust1")
		uc := NewUpdateEntry(e.repo, e.resolver(false), e.broker, e.auditd, false, zerolog.Nop())

		got, err := uc.Execute(ctx, sess, entry.ID, UpdateEntryInput{
			Phone:  str("628999"),
			Status: str("at served"),
		})
		require.NoError(t, err)
		assert.Equal(t, "628999", got.Phone)
		assert.Equal(t, "at queue", got.Status)
	})

	t.Run("barber serving stamps the window at transition time", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "barb1", "barber")
		entry := e.seedEntry(t, "anyone")
		uc := NewUpdateEntry(e.repo, e.resolver(true), e.broker, e.auditd, true, zerolog.Nop())

		before := timezone.Now()
		got, err := uc.Execute(ctx, sess, entry.ID, UpdateEntryInput{Status: str("at served")})
		require.NoError(t, err)

		assert.Equal(t, "at served", got.Status)
		require.NotNil(t, got.EtaStart)
		require.NotNil(t, got.EtaEnd)
		assert.Equal(t, 30*time.Minute, got.EtaEnd.Sub(*got.EtaStart))
		assert.WithinDuration(t, before, *got.EtaStart, 5*time.Second)
	})

	t.Run("invalid status value is rejected for barbers too", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "barb1", "barber")
		entry := e.seedEntry(t, "anyone")
		uc := NewUpdateEntry(e.repo, e.resolver(true), e.broker, e.auditd, true, zerolog.Nop())

		_, err := uc.Execute(ctx, sess, entry.ID, UpdateEntryInput{Status: str("done")})
		assert.True(t, httperr.IsBusiness(err, "invalid_status"))
	})

	t.Run("unparseable service_time is rejected on update", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "cust1", "")
		entry := e.seedEntry(t, "cust1")
		uc := NewUpdateEntry(e.repo, e.resolver(false), e.broker, e.auditd, false, zerolog.Nop())

		_, err := uc.Execute(ctx, sess, entry.ID, UpdateEntryInput{ServiceTime: str("soon")})
		assert.True(t, httperr.IsBusiness(err, "invalid_request"))
	})

	t.Run("empty patch is rejected", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "cust1", "")
		entry := e.seedEntry(t, "cust1")
		uc := NewUpdateEntry(e.repo, e.resolver(false), e.broker, e.auditd, false, zerolog.Nop())

		_, err := uc.Execute(ctx, sess, entry.ID, UpdateEntryInput{})
		assert.True(t, httperr.IsBusiness(err, "invalid_request"))
	})

	t.Run("publishes an update event", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "cust1", "")
		entry := e.seedEntry(t, "cust1")
		uc := NewUpdateEntry(e.repo, e.resolver(false), e.broker, e.auditd, false, zerolog.Nop())

		sub, err := e.broker.Subscribe(ctx)
		require.NoError(t, err)
		defer sub.Close()

		_, err = uc.Execute(ctx, sess, entry.ID, UpdateEntryInput{Phone: str("628999")})
		require.NoError(t, err)

		select {
		case ev := <-sub.Events():
			assert.Equal(t, realtime.EventUpdate, ev.Type)
			assert.Equal(t, entry.ID, ev.EntryID())
		case <-time.After(time.Second):
			t.Fatal("update event not published")
		}
	})
}

// ======================================================
// DELETE
// ======================================================

func TestDeleteEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("customers may not delete, not even their own", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "cust1", "")
		entry := e.seedEntry(t, "cust1")
		uc := NewDeleteEntry(e.repo, e.resolver(false), e.broker, e.auditd, zerolog.Nop())

		err := uc.Execute(ctx, sess, entry.ID)
		assert.True(t, httperr.IsBusiness(err, httperr.CodeForbidden))
	})

	t.Run("barber clears any entry", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "barb1", "barber")
		entry := e.seedEntry(t, "someone-else")
		uc := NewDeleteEntry(e.repo, e.resolver(true), e.broker, e.auditd, zerolog.Nop())

		sub, err := e.broker.Subscribe(ctx)
		require.NoError(t, err)
		defer sub.Close()

		require.NoError(t, uc.Execute(ctx, sess, entry.ID))

		_, err = e.repo.GetEntry(ctx, entry.ID)
		assert.Error(t, err)

		select {
		case ev := <-sub.Events():
			assert.Equal(t, realtime.EventDelete, ev.Type)
			assert.Equal(t, entry.ID, ev.EntryID())
		case <-time.After(time.Second):
			t.Fatal("delete event not published")
		}
	})

	t.Run("missing entry is not found", func(t *testing.T) {
		e := setupEnv(t)
		sess := e.seedProfile(t, "barb1", "barber")
		uc := NewDeleteEntry(e.repo, e.resolver(true), e.broker, e.auditd, zerolog.Nop())

		err := uc.Execute(ctx, sess, "ghost")
		assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
	})
}

// ======================================================
// LIST
// ======================================================

// listStubRepo overrides just the two list paths; everything else is
// inherited from the embedded interface and unused.
type listStubRepo struct {
	domain.Repository

	global    []models.BookingEntry
	globalErr error

	owned    []models.BookingEntry
	ownedErr error

	globalCalls int
}

func (s *listStubRepo) ListEntries(ctx context.Context) ([]models.BookingEntry, error) {
	s.globalCalls++
	return s.global, s.globalErr
}

func (s *listStubRepo) ListEntriesForOwner(ctx context.Context, ownerID string) ([]models.BookingEntry, error) {
	return s.owned, s.ownedErr
}

func TestListEntries(t *testing.T) {
	ctx := context.Background()

	global := []models.BookingEntry{{ID: "g1"}, {ID: "g2"}}
	owned := []models.BookingEntry{{ID: "o1"}}

	t.Run("elevated path serves the global queue", func(t *testing.T) {
		stub := &listStubRepo{global: global}
		uc := NewListEntries(stub, true, zerolog.Nop())

		got, err := uc.Execute(ctx, "cust1")
		require.NoError(t, err)
		assert.Equal(t, global, got)
	})

	t.Run("falls back to session scope when elevated fails", func(t *testing.T) {
		stub := &listStubRepo{globalErr: errors.New("boom"), owned: owned}
		uc := NewListEntries(stub, true, zerolog.Nop())

		got, err := uc.Execute(ctx, "cust1")
		require.NoError(t, err)
		assert.Equal(t, owned, got)
	})

	t.Run("without elevated credentials only the session path runs", func(t *testing.T) {
		stub := &listStubRepo{owned: owned}
		uc := NewListEntries(stub, false, zerolog.Nop())

		got, err := uc.Execute(ctx, "cust1")
		require.NoError(t, err)
		assert.Equal(t, owned, got)
		assert.Zero(t, stub.globalCalls)
	})

	t.Run("both paths failing is a fetch failure", func(t *testing.T) {
		stub := &listStubRepo{globalErr: errors.New("boom"), ownedErr: errors.New("boom")}
		uc := NewListEntries(stub, true, zerolog.Nop())

		_, err := uc.Execute(ctx, "cust1")
		assert.True(t, httperr.IsBusiness(err, httperr.CodeFetchFailed))
	})
}
