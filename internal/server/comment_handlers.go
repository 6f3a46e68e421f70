package server

import (
	"echowall/internal/models"
	"echowall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:  currentUserID(c),
		PostID:  c.Params("id"),
		Content: req.Content,
	})
	if err != nil {
		return respondErr(c, err)
	}
	return models.RespondWithData(c, fiber.StatusCreated, comment)
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	p, err := parsePagination(c, 20)
	if err != nil {
		return respondErr(c, err)
	}
	comments, total, err := s.commentService.ListComments(c.Context(), c.Params("id"), p.Page, p.Limit)
	if err != nil {
		return respondErr(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{
		"items":    comments,
		"total":    total,
		"page":     p.Page,
		"limit":    p.Limit,
		"has_more": int64(p.Page*p.Limit) < total,
	})
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	err := s.commentService.DeleteComment(c.Context(), service.DeleteCommentInput{
		UserID:    currentUserID(c),
		PostID:    c.Params("id"),
		CommentID: c.Params("commentId"),
	})
	if err != nil {
		return respondErr(c, err)
	}
	return models.RespondWithData(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
