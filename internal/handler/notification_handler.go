package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"locallink/internal/domain"
	"locallink/internal/middleware"
	"locallink/internal/service/notification"
)

type NotificationHandler struct {
	notificationService notification.Service
}

func NewNotificationHandler(notificationService notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) ListByBusiness(c *fiber.Ctx) error {
	businessID, err := paramUUID(c, "businessId", "business")
	if err != nil {
		return err
	}

	var filter domain.NotificationFilter
	if raw := c.Query("read"); raw != "" {
		read, err := strconv.ParseBool(raw)
		if err != nil {
			return middleware.BadRequest("read must be true or false")
		}
		filter.Read = &read
	}

	notifications, err := h.notificationService.ListByBusiness(c.UserContext(), businessID, filter)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(notifications)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	businessID, err := paramUUID(c, "businessId", "business")
	if err != nil {
		return err
	}

	count, err := h.notificationService.UnreadCount(c.UserContext(), businessID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(fiber.Map{"count": count})
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	businessID, err := paramUUID(c, "businessId", "business")
	if err != nil {
		return err
	}

	if _, err := h.notificationService.MarkAllAsRead(c.UserContext(), businessID); err != nil {
		return toHTTPError(err)
	}
	return success(c)
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id", "notification")
	if err != nil {
		return err
	}

	notif, err := h.notificationService.MarkAsRead(c.UserContext(), middleware.GetCurrentBusinessID(c), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(notif)
}
