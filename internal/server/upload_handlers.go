package server

import (
	"strings"

	"glassmap/internal/models"
	"glassmap/internal/storage"

	"github.com/gofiber/fiber/v2"
)

var uploadContentTypes = map[string]string{
	"image/jpeg": "image",
	"image/jpg":  "image",
	"image/png":  "image",
	"image/webp": "image",
	"video/mp4":  "video",
	"video/webm": "video",
}

const (
	maxImageUploadBytes = 10 << 20
	maxVideoUploadBytes = 100 << 20
)

// Upload handles POST /api/upload (admin only). The multipart field is
// named "file"; the stored object's public URL comes back to the caller.
func (s *Server) Upload(c *fiber.Ctx) error {
	if s.uploader == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			&models.AppError{Code: "STORAGE_UNAVAILABLE", Message: "Media storage is not configured"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Multipart field 'file' is required"))
	}

	contentType := strings.ToLower(fileHeader.Header.Get("Content-Type"))
	kind, ok := uploadContentTypes[contentType]
	if !ok {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unsupported content type: "+contentType))
	}

	limit := int64(maxImageUploadBytes)
	if kind == "video" {
		limit = maxVideoUploadBytes
	}
	if fileHeader.Size > limit {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("File exceeds the size limit"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer file.Close()

	key := storage.ObjectKey(kind, fileHeader.Filename)
	url, err := s.uploader.Upload(c.UserContext(), key, contentType, file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadGateway,
			models.NewUpstreamError("storage", err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"key":  key,
		"url":  url,
		"type": kind,
	})
}
