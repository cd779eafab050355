package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/trichbarbershop/barber-queue/internal/httperr"
	"github.com/trichbarbershop/barber-queue/internal/models"
)

// Barbers on the floor. The roster is small and changes with hiring,
// not per request, so it lives here rather than in the database.
var barberRoster = []string{"Dimas", "Rendi", "Yoga"}

// ======================================================
// HANDLER
// ======================================================

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// List returns the active service catalog plus the barber roster, the
// two datasets the booking form needs.
func (h *ServiceHandler) List(c *gin.Context) {
	var services []models.Service
	err := h.db.WithContext(c.Request.Context()).
		Where("active = ?", true).
		Order("id asc").
		Find(&services).Error
	if err != nil {
		httperr.Internal(c, httperr.CodeFetchFailed, "Failed to list services.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"barbers":  barberRoster,
	})
}
