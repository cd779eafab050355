package booking

import (
	"context"

	"github.com/trichbarbershop/barber-queue/internal/models"
)

// Repository is the persistence port for the booking queue. Methods
// come in two flavors: elevated ones see and touch every row, session
// ones are constrained to the owning account. Which flavor a use case
// picks depends on the caller's role and on whether elevated
// credentials are configured.
type Repository interface {
	// -------- Profile --------
	// UpsertProfile inserts or refreshes a profile row by id
	// (elevated; bypasses row ownership).
	UpsertProfile(
		ctx context.Context,
		profile *models.Profile,
	) error

	// CreateProfileIfAbsent is the session-scoped fallback: a plain
	// insert that leaves an existing row untouched.
	CreateProfileIfAbsent(
		ctx context.Context,
		profile *models.Profile,
	) error

	GetProfile(
		ctx context.Context,
		id string,
	) (*models.Profile, error)

	GetProfileByEmail(
		ctx context.Context,
		email string,
	) (*models.Profile, error)

	// -------- Entry (create / read) --------
	CreateEntry(
		ctx context.Context,
		entry *models.BookingEntry,
	) error

	GetEntry(
		ctx context.Context,
		id string,
	) (*models.BookingEntry, error)

	// ListEntries returns every row, newest first (elevated).
	ListEntries(
		ctx context.Context,
	) ([]models.BookingEntry, error)

	// ListEntriesForOwner returns the caller-visible subset, newest
	// first (session-scoped).
	ListEntriesForOwner(
		ctx context.Context,
		ownerID string,
	) ([]models.BookingEntry, error)

	// -------- Entry (mutation) --------

	// UpdateEntry applies fields to the row regardless of ownership
	// (elevated) and returns the updated row.
	UpdateEntry(
		ctx context.Context,
		id string,
		fields map[string]any,
	) (*models.BookingEntry, error)

	// UpdateOwnedEntry applies fields only when the row is owned by
	// ownerID. ErrNoRows when the predicate matches nothing; callers
	// must not distinguish "absent" from "not owned".
	UpdateOwnedEntry(
		ctx context.Context,
		id string,
		ownerID string,
		fields map[string]any,
	) (*models.BookingEntry, error)

	DeleteEntry(
		ctx context.Context,
		id string,
	) error
}

// ErrNoRows is returned by scoped mutations whose predicate matched
// nothing.
var ErrNoRows = noRowsError{}

type noRowsError struct{}

func (noRowsError) Error() string { return "no rows matched" }
