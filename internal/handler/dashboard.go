package handler

import (
	"net/http"

	"tokopos/internal/apierror"
	"tokopos/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc *service.DashboardService }

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Summary returns the aggregated dashboard view for the active mode.
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to compute summary"))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Refresh recomputes the summary and notifies registered listeners.
func (h *DashboardHandler) Refresh(c *gin.Context) {
	if err := h.svc.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to refresh summary"))
		return
	}
	c.Status(http.StatusNoContent)
}
