package server

import (
	"commune/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UploadMedia handles POST /api/media
// Accepts a multipart form with a "file" field and returns the stored
// reference plus its public URL. The reference can then be attached to a
// post (image_ref) or profile (avatar_ref, cover_ref).
func (s *Server) UploadMedia(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A 'file' form field is required"))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer src.Close()

	ref, err := s.media.Save(fileHeader.Filename, fileHeader.Size, src)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ref": ref,
		"url": s.media.URL(ref),
	})
}
