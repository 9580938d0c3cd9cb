package server

import (
	"errors"

	"glassmap/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetFavorites handles GET /api/favorites. It returns the caller's
// favorited spot ids; the full spots come from GET /spots?favoritesOnly=true.
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	ids, err := s.favoriteRepo.SpotIDs(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if ids == nil {
		ids = []uint{}
	}

	return c.JSON(fiber.Map{
		"spotIds": ids,
	})
}

// AddFavorite handles POST /api/favorites/:spotId. Adding an already
// favorited spot is a no-op success.
func (s *Server) AddFavorite(c *fiber.Ctx) error {
	spotID, err := s.parseID(c, "spotId")
	if err != nil {
		return nil
	}

	if _, err := s.spotRepo.GetByID(c.UserContext(), spotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Spot", spotID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if err := s.favoriteRepo.Add(c.UserContext(), currentUserID(c), spotID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"message": "Spot favorited",
	})
}

// RemoveFavorite handles DELETE /api/favorites/:spotId. Removing a spot
// that was never favorited is a no-op success.
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	spotID, err := s.parseID(c, "spotId")
	if err != nil {
		return nil
	}

	if err := s.favoriteRepo.Remove(c.UserContext(), currentUserID(c), spotID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"message": "Spot unfavorited",
	})
}
