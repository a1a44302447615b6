package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/vidora/vidora-go/internal/middleware"
	"github.com/vidora/vidora-go/internal/respond"
	"github.com/vidora/vidora-go/internal/service"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/v1/notifications. ?isRead=true|false filters by
// read state; the unread count always reflects the full set.
func (h *NotificationHandler) List(c fiber.Ctx) error {
	var isRead *bool
	switch c.Query("isRead") {
	case "true":
		v := true
		isRead = &v
	case "false":
		v := false
		isRead = &v
	}

	result, err := h.notifications.List(c.Context(), middleware.UserID(c), isRead, middleware.PageParams(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.Map{
		"notifications": result.Page,
		"unreadCount":   result.UnreadCount,
	}, "notifications")
}

// MarkRead handles PATCH /api/v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	if err := h.notifications.MarkRead(c.Context(), middleware.UserID(c), id); err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, nil, "notification marked read")
}

// MarkAllRead handles PATCH /api/v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	updated, err := h.notifications.MarkAllRead(c.Context(), middleware.UserID(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.Map{"updated": updated}, "notifications marked read")
}

// Delete handles DELETE /api/v1/notifications/:id.
func (h *NotificationHandler) Delete(c fiber.Ctx) error {
	id, err := middleware.ParseID(c, "id")
	if err != nil {
		return respond.Error(c, err)
	}

	if err := h.notifications.Delete(c.Context(), middleware.UserID(c), id); err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, nil, "notification deleted")
}
