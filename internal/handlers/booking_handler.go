package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/trichbarbershop/barber-queue/internal/httperr"
	"github.com/trichbarbershop/barber-queue/internal/httpresp"
	"github.com/trichbarbershop/barber-queue/internal/middleware"
	ucBooking "github.com/trichbarbershop/barber-queue/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	createUC *ucBooking.CreateEntry
	listUC   *ucBooking.ListEntries
	updateUC *ucBooking.UpdateEntry
	deleteUC *ucBooking.DeleteEntry
}

func NewBookingHandler(
	createUC *ucBooking.CreateEntry,
	listUC *ucBooking.ListEntries,
	updateUC *ucBooking.UpdateEntry,
	deleteUC *ucBooking.DeleteEntry,
) *BookingHandler {
	return &BookingHandler{
		createUC: createUC,
		listUC:   listUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	Phone       string `json:"phone"`
	FullName    string `json:"full_name"`
	Service     string `json:"service"`
	ServiceTime string `json:"service_time"`
	Barber      string `json:"barber"`
}

type UpdateBookingRequest struct {
	Phone       *string `json:"phone,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	Service     *string `json:"service,omitempty"`
	ServiceTime *string `json:"service_time,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	if sess.UserID == "" {
		httperr.Unauthorized(c, httperr.CodeUnauthorized, "Sign in to book.")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Malformed booking payload.")
		return
	}

	err := h.createUC.Execute(c.Request.Context(), sess, ucBooking.CreateEntryInput{
		Phone:       req.Phone,
		FullName:    req.FullName,
		Service:     req.Service,
		ServiceTime: req.ServiceTime,
		Barber:      req.Barber,
	})
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.Created(c, "Created")
}

// ======================================================
// LIST
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	entries, err := h.listUC.Execute(c.Request.Context(), sess.UserID)
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, entries)
}

// ======================================================
// UPDATE
// ======================================================

func (h *BookingHandler) Update(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	id := c.Param("id")

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Malformed update payload.")
		return
	}

	updated, err := h.updateUC.Execute(c.Request.Context(), sess, id, ucBooking.UpdateEntryInput{
		Phone:       req.Phone,
		FullName:    req.FullName,
		Service:     req.Service,
		ServiceTime: req.ServiceTime,
		Status:      req.Status,
	})
	if err != nil {
		mapBookingError(c, err)
		return
	}

	httpresp.OK(c, updated)
}

// ======================================================
// DELETE
// ======================================================

func (h *BookingHandler) Delete(c *gin.Context) {
	sess := middleware.SessionFromContext(c)
	id := c.Param("id")

	if err := h.deleteUC.Execute(c.Request.Context(), sess, id); err != nil {
		mapBookingError(c, err)
		return
	}

	c.JSON(200, gin.H{"message": "Deleted"})
}

// ======================================================
// ERROR MAPPING
// ======================================================

func mapBookingError(c *gin.Context, err error) {
	switch httperr.BusinessCode(err) {
	case httperr.CodeUnauthorized:
		httperr.Unauthorized(c, httperr.CodeUnauthorized, "Sign in first.")
	case httperr.CodeForbidden:
		httperr.Forbidden(c, httperr.CodeForbidden, "Barber role required.")
	case httperr.CodeNotFound:
		httperr.NotFound(c, httperr.CodeNotFound, "Entry not found.")
	case httperr.CodeNotFoundOrForbidden:
		httperr.NotFound(c, httperr.CodeNotFoundOrForbidden, "Not found or not allowed.")
	case httperr.CodeProfileSetupFailed:
		httperr.Internal(c, httperr.CodeProfileSetupFailed, "Failed to ensure profile exists.")
	case httperr.CodeInsertFailed:
		httperr.Internal(c, httperr.CodeInsertFailed, "Failed to create entry.")
	case httperr.CodeUpdateFailed:
		httperr.Internal(c, httperr.CodeUpdateFailed, "Failed to update entry.")
	case httperr.CodeDeleteFailed:
		httperr.Internal(c, httperr.CodeDeleteFailed, "Failed to delete entry.")
	case httperr.CodeFetchFailed:
		httperr.Internal(c, httperr.CodeFetchFailed, "Failed to list entries.")
	case "invalid_request", "invalid_status":
		httperr.BadRequest(c, httperr.BusinessCode(err), "Invalid request.")
	default:
		httperr.Internal(c, "unexpected", "Unexpected error.")
	}
}
