package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// NotificationsHandler serves both the admin and the per-user polled
// notification read models.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notificationService}
}

// ListAdmin GET /notifications.
func (h *NotificationsHandler) ListAdmin(c *fiber.Ctx) error {
	items, err := h.notifications.ListAdmin(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromNotifications(items)})
}

// AdminUnreadCount GET /notifications/unread-count.
func (h *NotificationsHandler) AdminUnreadCount(c *fiber.Ctx) error {
	count, err := h.notifications.AdminUnreadCount(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"unread": count}})
}

// MarkAdminRead PUT /notifications/:id/read.
func (h *NotificationsHandler) MarkAdminRead(c *fiber.Ctx) error {
	id, err := parseNotificationID(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkAdminRead(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// MarkAllAdminRead PUT /notifications/read-all.
func (h *NotificationsHandler) MarkAllAdminRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkAllAdminRead(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListForUser GET /user-notifications.
func (h *NotificationsHandler) ListForUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	items, err := h.notifications.ListForUser(c.UserContext(), principal.User.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromUserNotifications(items)})
}

// UserUnreadCount GET /user-notifications/unread-count.
func (h *NotificationsHandler) UserUnreadCount(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	count, err := h.notifications.UserUnreadCount(c.UserContext(), principal.User.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"unread": count}})
}

// MarkUserRead PUT /user-notifications/:id/read.
func (h *NotificationsHandler) MarkUserRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseNotificationID(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkUserRead(c.UserContext(), id, principal.User.ID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// MarkAllUserRead PUT /user-notifications/read-all.
func (h *NotificationsHandler) MarkAllUserRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.notifications.MarkAllUserRead(c.UserContext(), principal.User.ID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseNotificationID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid notification id", nil)
	}
	return id, nil
}
