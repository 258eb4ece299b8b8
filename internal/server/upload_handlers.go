package server

import (
	"github.com/gofiber/fiber/v2"

	"concord/internal/models"
)

const maxUploadBytes = 10 << 20 // 10 MB

var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadImage stores an uploaded image in the blob store and returns its
// URL and object key. Clients attach the URL to posts or profiles.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	if s.blobs == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fiber.ErrServiceUnavailable))
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image file is required"))
	}
	if fileHeader.Size > maxUploadBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image exceeds the 10MB limit"))
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unsupported image type"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer file.Close()

	url, key, err := s.blobs.Put(c.Context(), file, fileHeader.Size, contentType)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url":       url,
		"public_id": key,
	})
}

// DeleteImage removes an uploaded object by its key. The key may contain
// slashes, so the route binds it as a wildcard parameter.
func (s *Server) DeleteImage(c *fiber.Ctx) error {
	if s.blobs == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fiber.ErrServiceUnavailable))
	}

	key := c.Params("+")
	if key == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Object key is required"))
	}

	if err := s.blobs.Delete(c.Context(), key); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.SendStatus(fiber.StatusNoContent)
}
