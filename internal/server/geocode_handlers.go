package server

import (
	"strings"

	"glassmap/internal/models"
	"glassmap/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Geocode handles GET /api/geocode?address=...
func (s *Server) Geocode(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("address"))
	if query == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Query parameter 'address' is required"))
	}

	results, err := s.geocoder.Search(c.UserContext(), query)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewUpstreamError("geocoding", err))
	}

	return c.JSON(results)
}

// ReverseGeocode handles GET /api/geocode/reverse?lat=...&lng=...
func (s *Server) ReverseGeocode(c *fiber.Ctx) error {
	if c.Query("lat") == "" || c.Query("lng") == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Query parameters 'lat' and 'lng' are required"))
	}

	lat := c.QueryFloat("lat")
	lng := c.QueryFloat("lng")
	if err := validation.ValidateCoordinates(lat, lng); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	result, err := s.geocoder.Reverse(c.UserContext(), lat, lng)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewUpstreamError("geocoding", err))
	}

	return c.JSON(result)
}
