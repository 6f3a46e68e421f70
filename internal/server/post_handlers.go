package server

import (
	"echowall/internal/models"
	"echowall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Content string   `json:"content"`
		Images  []string `json:"images"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:  currentUserID(c),
		Content: req.Content,
		Images:  req.Images,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return models.RespondWithData(c, fiber.StatusCreated, post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p, err := parsePagination(c, 20)
	if err != nil {
		return respondErr(c, err)
	}
	page, err := s.postService.ListPosts(c.Context(), p.Page, p.Limit)
	if err != nil {
		return respondErr(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, page)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.Context(), c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, post)
}

// GetUserPosts handles GET /api/users/:idOrUsername/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.Context(), c.Params("idOrUsername"))
	if err != nil {
		return respondErr(c, err)
	}

	p, err := parsePagination(c, 20)
	if err != nil {
		return respondErr(c, err)
	}
	page, err := s.postService.ListPostsByUser(c.Context(), user.ID, p.Page, p.Limit)
	if err != nil {
		return respondErr(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, page)
}

// UpdatePost handles PATCH /api/posts/:id. Absent fields keep their
// current values.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var req struct {
		Content *string   `json:"content"`
		Images  *[]string `json:"images"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  c.Params("id"),
		Content: req.Content,
		Images:  req.Images,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: c.Params("id"),
	})
	if err != nil {
		return respondErr(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{"deleted": true})
}

// ToggleLike handles POST /api/posts/:id/like. The response carries the
// full resulting like state so clients can reconcile optimistic updates.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	result, err := s.postService.ToggleLike(c.Context(), c.Params("id"), currentUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, result)
}
