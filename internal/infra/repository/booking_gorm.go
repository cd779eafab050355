package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/trichbarbershop/barber-queue/internal/domain/booking"
	"github.com/trichbarbershop/barber-queue/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Profile
// --------------------------------------------------

func (r *BookingGormRepository) UpsertProfile(
	ctx context.Context,
	profile *models.Profile,
) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"full_name", "avatar_url", "updated_at",
			}),
		}).
		Create(profile).Error
}

func (r *BookingGormRepository) CreateProfileIfAbsent(
	ctx context.Context,
	profile *models.Profile,
) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(profile).Error
}

func (r *BookingGormRepository) GetProfile(
	ctx context.Context,
	id string,
) (*models.Profile, error) {

	var profile models.Profile
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *BookingGormRepository) GetProfileByEmail(
	ctx context.Context,
	email string,
) (*models.Profile, error) {

	var profile models.Profile
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// --------------------------------------------------
// Entry (create / read)
// --------------------------------------------------

func (r *BookingGormRepository) CreateEntry(
	ctx context.Context,
	entry *models.BookingEntry,
) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *BookingGormRepository) GetEntry(
	ctx context.Context,
	id string,
) (*models.BookingEntry, error) {

	var entry models.BookingEntry
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *BookingGormRepository) ListEntries(
	ctx context.Context,
) ([]models.BookingEntry, error) {

	var entries []models.BookingEntry
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *BookingGormRepository) ListEntriesForOwner(
	ctx context.Context,
	ownerID string,
) ([]models.BookingEntry, error) {

	var entries []models.BookingEntry
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// --------------------------------------------------
// Entry (mutation)
// --------------------------------------------------

func (r *BookingGormRepository) UpdateEntry(
	ctx context.Context,
	id string,
	fields map[string]any,
) (*models.BookingEntry, error) {

	res := r.db.WithContext(ctx).
		Model(&models.BookingEntry{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNoRows
	}

	return r.GetEntry(ctx, id)
}

func (r *BookingGormRepository) UpdateOwnedEntry(
	ctx context.Context,
	id string,
	ownerID string,
	fields map[string]any,
) (*models.BookingEntry, error) {

	res := r.db.WithContext(ctx).
		Model(&models.BookingEntry{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNoRows
	}

	return r.GetEntry(ctx, id)
}

func (r *BookingGormRepository) DeleteEntry(
	ctx context.Context,
	id string,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.BookingEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNoRows
	}
	return nil
}

// IsNotFound reports whether err is a record-not-found from the
// underlying store.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
