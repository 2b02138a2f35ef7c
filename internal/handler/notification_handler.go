package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-admin-api/internal/service"
	"github.com/noah-isme/college-admin-api/pkg/response"
)

type emailRetrier interface {
	RetryFailed(ctx context.Context) (*service.RetrySummary, error)
}

// NotificationHandler exposes manual control over email delivery.
type NotificationHandler struct {
	notifications emailRetrier
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(notifications emailRetrier) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// Retry godoc
// @Summary Re-enqueue failed email deliveries
// @Tags Notifications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notifications/retry [post]
func (h *NotificationHandler) Retry(c *gin.Context) {
	summary, err := h.notifications.RetryFailed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Retry sweep completed", summary)
}
