package server

import (
	"glassmap/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetActivityLogs handles GET /api/logs (admin only)
func (s *Server) GetActivityLogs(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	logs, err := s.activityRepo.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if logs == nil {
		logs = []*models.ActivityLog{}
	}

	return c.JSON(fiber.Map{
		"logs":   logs,
		"limit":  page.Limit,
		"offset": page.Offset,
	})
}
