package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/classpulse/classpulse-api/internal/models"
	"github.com/classpulse/classpulse-api/pkg/response"
)

// NotificationProvider is the service surface the notification handler needs.
type NotificationProvider interface {
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// NotificationHandler serves notification endpoints.
type NotificationHandler struct {
	notifications NotificationProvider
}

// NewNotificationHandler constructs the notification handler.
func NewNotificationHandler(notifications NotificationProvider) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListByUser godoc
// @Summary List a user's notifications, newest first
// @Tags notifications
// @Produce json
// @Param userId path string true "user ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /notifications/user/{userId} [get]
func (h *NotificationHandler) ListByUser(c *gin.Context) {
	notifications, err := h.notifications.ListByUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notifications, nil)
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Param id path string true "notification ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notifications.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
