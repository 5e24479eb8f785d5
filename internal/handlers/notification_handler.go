package handlers

import (
	"github.com/fogonims/stock-service/internal/httpapi"
	"github.com/fogonims/stock-service/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	caller := CallerFromContext(c)

	notifications, err := h.notificationService.ListNotifications(caller)
	if err != nil {
		return httpapi.InternalServerErrorResponse(c, "Failed to list notifications", nil)
	}

	return httpapi.SuccessResponse(c, "Notifications retrieved", mapNotifications(notifications))
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	caller := CallerFromContext(c)

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpapi.BadRequestResponse(c, "Invalid notification ID", nil)
	}

	notification, err := h.notificationService.MarkRead(caller, notificationID)
	if err != nil {
		return httpapi.DomainErrorResponse(c, err)
	}

	return httpapi.SuccessResponse(c, "Notification marked as read", mapNotification(notification))
}
