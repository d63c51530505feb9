package handler

import (
	"net/http"

	"tokopos/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationsHandler exposes the receipt outcome events, newest first.
// This is how a terminal learns that a committed sale's receipt failed.
type NotificationsHandler struct{ notifier *service.Notifier }

func NewNotificationsHandler(notifier *service.Notifier) *NotificationsHandler {
	return &NotificationsHandler{notifier: notifier}
}

func (h *NotificationsHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.notifier.List())
}
