package admin

import (
	"github.com/inkfolio-shop/internal/http/handlers/shared"
	"github.com/inkfolio-shop/internal/http/response"
	"github.com/inkfolio-shop/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListNotifications lists admin notifications, newest first.
func (h *Handler) ListNotifications(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	notifications, total, err := h.NotificationService.List(repository.NotificationListFilter{
		Page:       page,
		PageSize:   pageSize,
		Type:       c.Query("type"),
		UnreadOnly: c.Query("unread") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load notifications", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"notifications": notifications}, response.NewPagination(page, pageSize, total))
}

// UnreadNotificationCount returns the unread badge count.
func (h *Handler) UnreadNotificationCount(c *gin.Context) {
	count, err := h.NotificationService.CountUnread()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to count notifications", err)
		return
	}
	response.Success(c, gin.H{"unread": count})
}

// GetNotification fetches one notification by id.
func (h *Handler) GetNotification(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	notification, err := h.NotificationService.Get(id)
	if err != nil {
		shared.RespondMappedError(c, err, notificationErrorRules, "failed to load notification")
		return
	}
	response.Success(c, gin.H{"notification": notification})
}

// MarkNotificationRead marks one notification as read. Reading an already
// read notification is a no-op.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.NotificationService.MarkRead(id); err != nil {
		shared.RespondMappedError(c, err, notificationErrorRules, "failed to mark notification read")
		return
	}
	response.SuccessWithMsg(c, "notification read", nil)
}

// MarkAllNotificationsRead marks every unread notification as read.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	affected, err := h.NotificationService.MarkAllRead()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to mark notifications read", err)
		return
	}
	response.Success(c, gin.H{"marked": affected})
}

// DeleteNotification permanently removes a notification.
func (h *Handler) DeleteNotification(c *gin.Context) {
	id, ok := shared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.NotificationService.Delete(id); err != nil {
		shared.RespondMappedError(c, err, notificationErrorRules, "failed to delete notification")
		return
	}
	response.SuccessWithMsg(c, "notification deleted", nil)
}
