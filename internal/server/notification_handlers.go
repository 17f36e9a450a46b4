package server

import (
	"studyoverflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	page := parsePagination(c, defaultPageSize)

	notifications, err := s.notificationService.List(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(notifications)
}

// GetUnreadCount handles GET /api/notifications/unread-count
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)

	count, err := s.notificationService.UnreadCount(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// MarkNotificationsRead handles POST /api/notifications/read. Without ids every
// unread notification is marked.
func (s *Server) MarkNotificationsRead(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)

	var req struct {
		IDs []uint `json:"ids"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
	}

	updated, err := s.notificationService.MarkRead(c.UserContext(), userID, req.IDs)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "updated": updated})
}
