package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/trichbarbershop/barber-queue/internal/httperr"
	"github.com/trichbarbershop/barber-queue/internal/identity"
	"github.com/trichbarbershop/barber-queue/internal/middleware"
	"github.com/trichbarbershop/barber-queue/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db       *gorm.DB
	resolver *identity.Resolver
}

func NewAuditLogsHandler(db *gorm.DB, resolver *identity.Resolver) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, resolver: resolver}
}

// List is barber-only: the audit trail covers every account's entries.
func (h *AuditLogsHandler) List(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	id, err := h.resolver.Resolve(c.Request.Context(), sess)
	if err != nil {
		httperr.Unauthorized(c, httperr.CodeUnauthorized, "Sign in first.")
		return
	}
	if !id.IsBarber() {
		httperr.Forbidden(c, httperr.CodeForbidden, "Barber role required.")
		return
	}

	action := c.Query("action")
	entity := c.Query("entity")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	// --------------------------------------------------
	// Optional filters
	// --------------------------------------------------

	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	if action != "" {
		q = q.Where("action = ?", action)
	}

	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}

	if toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			q = q.Where("created_at <= ?", to.Add(24*time.Hour))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Failed to count logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Failed to list logs.")
		return
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
