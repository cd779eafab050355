package identity

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dbpkg "github.com/trichbarbershop/barber-queue/internal/db"
	"github.com/trichbarbershop/barber-queue/internal/httperr"
	infraRepo "github.com/trichbarbershop/barber-queue/internal/infra/repository"
	"github.com/trichbarbershop/barber-queue/internal/models"
)

func setupResolver(t *testing.T, elevated bool) (*Resolver, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	repo := infraRepo.NewBookingGormRepository(db)
	return NewResolver(repo, elevated, zerolog.Nop()), db
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		r, _ := setupResolver(t, true)

		_, err := r.Resolve(ctx, Session{})
		assert.True(t, httperr.IsBusiness(err, httperr.CodeUnauthorized))
	})

	t.Run("missing profile resolves to the default role", func(t *testing.T) {
		r, _ := setupResolver(t, true)

		id, err := r.Resolve(ctx, Session{UserID: "ghost"})
		require.NoError(t, err)
		assert.Empty(t, id.Role)
		assert.False(t, id.IsBarber())
	})

	t.Run("role comes from the profile row", func(t *testing.T) {
		r, db := setupResolver(t, true)
		require.NoError(t, db.Create(&models.Profile{ID: "b1", Email: "b@x.test", Role: "barber"}).Error)

		id, err := r.Resolve(ctx, Session{UserID: "b1"})
		require.NoError(t, err)
		assert.True(t, id.IsBarber())
	})
}

func TestResolveEnsuringProfile(t *testing.T) {
	ctx := context.Background()
	sess := Session{UserID: "u1", Email: "u1@x.test", FullName: "Ana", AvatarURL: "http://x/a.webp"}

	t.Run("provisions the row on first contact", func(t *testing.T) {
		r, db := setupResolver(t, true)

		id, err := r.ResolveEnsuringProfile(ctx, sess)
		require.NoError(t, err)
		assert.Equal(t, "u1", id.UserID)

		var profile models.Profile
		require.NoError(t, db.First(&profile, "id = ?", "u1").Error)
		assert.Equal(t, "Ana", profile.FullName)
	})

	t.Run("elevated refreshes name and avatar, keeps role", func(t *testing.T) {
		r, db := setupResolver(t, true)
		require.NoError(t, db.Create(&models.Profile{
			ID: "u1", Email: "u1@x.test", FullName: "Old Name", Role: "barber",
		}).Error)

		id, err := r.ResolveEnsuringProfile(ctx, sess)
		require.NoError(t, err)
		assert.True(t, id.IsBarber())

		var profile models.Profile
		require.NoError(t, db.First(&profile, "id = ?", "u1").Error)
		assert.Equal(t, "Ana", profile.FullName)
		assert.Equal(t, "barber", profile.Role)
	})

	t.Run("session-scoped path leaves an existing row untouched", func(t *testing.T) {
		r, db := setupResolver(t, false)
		require.NoError(t, db.Create(&models.Profile{
			ID: "u1", Email: "u1@x.test", FullName: "Old Name",
		}).Error)

		_, err := r.ResolveEnsuringProfile(ctx, sess)
		require.NoError(t, err)

		var profile models.Profile
		require.NoError(t, db.First(&profile, "id = ?", "u1").Error)
		assert.Equal(t, "Old Name", profile.FullName)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		r, _ := setupResolver(t, false)

		_, err := r.ResolveEnsuringProfile(ctx, Session{})
		assert.True(t, httperr.IsBusiness(err, httperr.CodeUnauthorized))
	})
}
