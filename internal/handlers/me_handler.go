package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/trichbarbershop/barber-queue/internal/httperr"
	"github.com/trichbarbershop/barber-queue/internal/middleware"
	"github.com/trichbarbershop/barber-queue/internal/models"
	"github.com/trichbarbershop/barber-queue/internal/storage"
)

// Avatars above this size are rejected before decoding.
const maxAvatarUploadBytes = 5 << 20

// ======================================================
// HANDLER
// ======================================================

type MeHandler struct {
	db      *gorm.DB
	avatars *storage.AvatarStore
	logger  zerolog.Logger
}

func NewMeHandler(db *gorm.DB, avatars *storage.AvatarStore, logger zerolog.Logger) *MeHandler {
	return &MeHandler{
		db:      db,
		avatars: avatars,
		logger:  logger.With().Str("handler", "me").Logger(),
	}
}

// ======================================================
// GET ME
// ======================================================

func (h *MeHandler) GetMe(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	var profile models.Profile
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ?", sess.UserID).
		First(&profile).Error
	if err != nil {
		httperr.NotFound(c, "profile_not_found", "No profile for this account yet.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": publicProfile(profile)})
}

// ======================================================
// AVATAR UPLOAD
// ======================================================

// UploadAvatar accepts a multipart "avatar" image, re-encodes it as a
// bounded WebP and stores it on S3. The profile's avatar_url is updated
// to the stored object's public URL.
func (h *MeHandler) UploadAvatar(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	if !h.avatars.Configured() {
		httperr.Write(c, http.StatusServiceUnavailable, "avatar_storage_unavailable", "Avatar storage is not configured.")
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "Multipart field 'avatar' is required.")
		return
	}
	defer file.Close()

	if header.Size > maxAvatarUploadBytes {
		httperr.BadRequest(c, "avatar_too_large", "Avatar must be 5MB or smaller.")
		return
	}

	url, err := h.avatars.Put(c.Request.Context(), sess.UserID, file)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", sess.UserID).Msg("avatar upload failed")
		httperr.Internal(c, "avatar_upload_failed", "Failed to store avatar.")
		return
	}

	err = h.db.WithContext(c.Request.Context()).
		Model(&models.Profile{}).
		Where("id = ?", sess.UserID).
		Update("avatar_url", url).Error
	if err != nil {
		httperr.Internal(c, "avatar_upload_failed", "Failed to record avatar URL.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"avatar_url": url}})
}
