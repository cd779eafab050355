package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trichbarbershop/barber-queue/internal/queueview"
)

// ======================================================
// HANDLER
// ======================================================

// WaitlistHandler serves the reconciled queue snapshot maintained by
// the background view. When the view's catch-up fetch has failed, the
// last known good snapshot is still served alongside an error marker.
type WaitlistHandler struct {
	view *queueview.View
}

func NewWaitlistHandler(view *queueview.View) *WaitlistHandler {
	return &WaitlistHandler{view: view}
}

func (h *WaitlistHandler) Get(c *gin.Context) {
	body := gin.H{"data": h.view.Entries()}
	if err := h.view.Err(); err != nil {
		body["error"] = "queue snapshot may be stale"
	}
	c.JSON(http.StatusOK, body)
}
