package server

import (
	"errors"

	"glassmap/internal/cache"
	"glassmap/internal/models"
	"glassmap/internal/repository"
	"glassmap/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// parseSpotFilter reads the listing query parameters. favoritesOnly=true
// without a valid token is rejected here; every other predicate is optional.
func (s *Server) parseSpotFilter(c *fiber.Ctx) (repository.SpotFilter, error) {
	filter := repository.SpotFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		UserID:   currentUserID(c),
	}

	hasLat := c.Query("lat") != ""
	hasLng := c.Query("lng") != ""
	hasRadius := c.Query("radius") != ""
	if hasLat || hasLng || hasRadius {
		radius := c.QueryFloat("radius")
		if !hasLat || !hasLng || !hasRadius || radius <= 0 {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("lat, lng and radius must all be provided for radius search"))
			return filter, errResponseWritten
		}
		lat := c.QueryFloat("lat")
		lng := c.QueryFloat("lng")
		filter.Lat = &lat
		filter.Lng = &lng
		filter.RadiusKm = &radius
	}

	if c.QueryBool("favoritesOnly") {
		if filter.UserID == 0 {
			_ = models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required for favoritesOnly"))
			return filter, errResponseWritten
		}
		filter.FavoritesOnly = true
	}

	return filter, nil
}

// GetSpots handles GET /api/spots
func (s *Server) GetSpots(c *fiber.Ctx) error {
	filter, err := s.parseSpotFilter(c)
	if err != nil {
		return nil
	}

	var views []service.SpotView

	if filter.FavoritesOnly {
		// per-user listings bypass the shared cache
		views, err = s.spotService.List(c.UserContext(), filter)
	} else {
		key := cache.SpotListKey(filter.Fingerprint())
		err = cache.Aside(c.UserContext(), key, &views, cache.SpotListTTL, func() error {
			var listErr error
			views, listErr = s.spotService.List(c.UserContext(), filter)
			return listErr
		})
	}
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if views == nil {
		views = []service.SpotView{}
	}
	return c.JSON(fiber.Map{
		"spots": views,
	})
}

// GetSpot handles GET /api/spots/:id
func (s *Server) GetSpot(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	view, err := s.spotService.Get(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Spot", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"spot": view,
	})
}

// CreateSpot handles POST /api/spots (admin only)
func (s *Server) CreateSpot(c *fiber.Ctx) error {
	var in service.SpotInput
	if err := c.BodyParser(&in); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	view, err := s.spotService.Create(c.UserContext(), &in, currentUserID(c), s.currentUsername(c))
	if err != nil {
		return s.respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"spotId": view.ID,
	})
}

// UpdateSpot handles PUT /api/spots/:id (admin only). The body is a partial
// payload; omitted fields keep their stored values.
func (s *Server) UpdateSpot(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var patch service.SpotPatch
	if err := c.BodyParser(&patch); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	view, err := s.spotService.Update(c.UserContext(), id, &patch, currentUserID(c), s.currentUsername(c))
	if err != nil {
		return s.respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Spot updated",
		"spot":    view,
	})
}

// DeleteSpot handles DELETE /api/spots/:id (admin only)
func (s *Server) DeleteSpot(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.spotService.Delete(c.UserContext(), id, currentUserID(c), s.currentUsername(c)); err != nil {
		return s.respondAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Spot deleted",
	})
}

// respondAppError maps service-layer errors onto HTTP responses.
func (s *Server) respondAppError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return models.RespondWithAppError(c, appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}
