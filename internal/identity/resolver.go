package identity

import (
	"context"

	"github.com/rs/zerolog"

	domain "github.com/trichbarbershop/barber-queue/internal/domain/booking"
	"github.com/trichbarbershop/barber-queue/internal/httperr"
	"github.com/trichbarbershop/barber-queue/internal/models"
)

// Session is the authenticated caller as carried in the token claims.
type Session struct {
	UserID    string
	Email     string
	FullName  string
	AvatarURL string
}

// Identity is a resolved session: the session plus the role read from
// the confirmed profile row.
type Identity struct {
	UserID string
	Role   string
}

func (id *Identity) IsBarber() bool {
	return id != nil && id.Role == models.RoleBarber
}

// Resolver turns a session into an identity. Every mutating endpoint
// goes through it instead of repeating the profile lookup inline.
type Resolver struct {
	repo     domain.Repository
	elevated bool
	logger   zerolog.Logger
}

func NewResolver(repo domain.Repository, elevated bool, logger zerolog.Logger) *Resolver {
	return &Resolver{
		repo:     repo,
		elevated: elevated,
		logger:   logger,
	}
}

// Resolve looks up the caller's role. A missing profile resolves to an
// empty role rather than an error.
func (r *Resolver) Resolve(ctx context.Context, sess Session) (*Identity, error) {
	if sess.UserID == "" {
		return nil, httperr.ErrBusiness(httperr.CodeUnauthorized)
	}

	profile, err := r.repo.GetProfile(ctx, sess.UserID)
	if err != nil {
		return &Identity{UserID: sess.UserID}, nil
	}

	return &Identity{UserID: sess.UserID, Role: profile.Role}, nil
}

// ResolveEnsuringProfile resolves the caller and guarantees a profile
// row exists, creating it on demand. Some accounts predate the signup
// trigger that normally creates the row.
//
// The upsert itself failing is a warning only; the profile still being
// absent afterwards is a hard failure.
func (r *Resolver) ResolveEnsuringProfile(ctx context.Context, sess Session) (*Identity, error) {
	if sess.UserID == "" {
		return nil, httperr.ErrBusiness(httperr.CodeUnauthorized)
	}

	payload := &models.Profile{
		ID:        sess.UserID,
		Email:     sess.Email,
		FullName:  sess.FullName,
		AvatarURL: sess.AvatarURL,
	}

	if r.elevated {
		if err := r.repo.UpsertProfile(ctx, payload); err != nil {
			r.logger.Warn().Err(err).Str("user_id", sess.UserID).
				Msg("elevated profile upsert failed, retrying session-scoped")
			if err := r.repo.CreateProfileIfAbsent(ctx, payload); err != nil {
				r.logger.Warn().Err(err).Str("user_id", sess.UserID).
					Msg("session-scoped profile create failed")
			}
		}
	} else {
		if err := r.repo.CreateProfileIfAbsent(ctx, payload); err != nil {
			r.logger.Warn().Err(err).Str("user_id", sess.UserID).
				Msg("profile create failed")
		}
	}

	// Confirm the row exists now. This is the hard gate.
	profile, err := r.repo.GetProfile(ctx, sess.UserID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeProfileSetupFailed)
	}

	return &Identity{UserID: sess.UserID, Role: profile.Role}, nil
}
