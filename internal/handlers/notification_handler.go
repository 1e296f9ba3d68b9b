package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gumaan88/seafood-by-gemini-sub000/internal/httpapi"
	"github.com/gumaan88/seafood-by-gemini-sub000/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) Inbox(c *fiber.Ctx) error {
	recipientID := c.Params("id")

	notifications, err := h.notificationService.Inbox(c.Context(), recipientID)
	if err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Notifications retrieved successfully", notifications)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.notificationService.MarkRead(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return httpapi.SuccessResponse(c, "Notification marked as read", nil)
}
