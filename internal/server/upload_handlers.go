package server

import (
	"errors"
	"io"

	"echowall/internal/blob"
	"echowall/internal/models"
	"echowall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/uploads (multipart field "file").
func (s *Server) UploadImage(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Multipart field 'file' is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondErr(c, models.NewInternalError(err))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return respondErr(c, models.NewInternalError(err))
	}

	result, err := s.uploadService.Upload(c.Context(), service.UploadInput{
		UserID:      currentUserID(c),
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return models.RespondWithData(c, fiber.StatusCreated, result)
}

// GetUpload handles GET /api/uploads/:year/:filename. A stored blob is
// never rewritten under the same name, so responses cache forever.
func (s *Server) GetUpload(c *fiber.Ctx) error {
	data, contentType, err := s.blobs.Get(c.Params("year"), c.Params("filename"))
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Upload", c.Params("filename")))
		}
		return respondErr(c, models.NewInternalError(err))
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.Send(data)
}
