package server

import (
	"echowall/internal/models"
	"echowall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /api/users. The default order is newest joined
// first; ?view=community switches to most-recently-active first.
func (s *Server) GetUsers(c *fiber.Ctx) error {
	byActivity := c.Query("view") == "community"
	users, err := s.userService.ListUsers(c.Context(), byActivity)
	if err != nil {
		return respondErr(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return models.RespondWithData(c, fiber.StatusOK, users)
}

// GetUser handles GET /api/users/:idOrUsername
func (s *Server) GetUser(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.Context(), c.Params("idOrUsername"))
	if err != nil {
		return respondErr(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, user)
}

// UpdateUser handles PATCH /api/users/:id
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req struct {
		Bio *string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Bio == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No fields to update"))
	}

	user, err := s.userService.UpdateBio(c.Context(), service.UpdateBioInput{
		CallerID: currentUserID(c),
		UserID:   c.Params("id"),
		Bio:      *req.Bio,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, user)
}
