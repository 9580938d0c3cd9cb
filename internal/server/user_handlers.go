package server

import (
	"errors"
	"fmt"

	"glassmap/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetUsers handles GET /api/users (admin only)
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userRepo.List(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if users == nil {
		users = []*models.User{}
	}
	return c.JSON(fiber.Map{
		"users": users,
	})
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateUserRole handles PUT /api/users/:id/role (admin only)
func (s *Server) UpdateUserRole(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if !models.ValidRole(req.Role) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Role must be user or admin"))
	}

	if err := s.userRepo.UpdateRole(c.UserContext(), id, req.Role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("User", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	s.logActivity(c, currentUserID(c), s.currentUsername(c),
		models.ActionRoleChanged, fmt.Sprintf("user %d set to %s", id, req.Role))

	return c.JSON(fiber.Map{
		"message": "Role updated",
	})
}
