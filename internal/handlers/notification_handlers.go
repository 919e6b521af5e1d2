package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/glowbeauty-golang/internal/middleware"
)

// ListNotifications handles GET /api/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	notifications, err := h.Store.ListNotifications(c.Request.Context(), userID)
	if err != nil {
		h.storeError(c, err, "Notifications", "fetch notifications")
		return
	}

	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "unreadCount": unread})
}

// MarkNotificationRead handles PUT /api/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	if err := h.Store.MarkNotificationRead(c.Request.Context(), id, userID); err != nil {
		h.storeError(c, err, "Notification", "update notification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
