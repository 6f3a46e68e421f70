package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"echowall/internal/models"
	"echowall/internal/repository"
)

const maxCommentLen = 1000

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	isAdmin     func(ctx context.Context, userID string) (bool, error)
}

type CreateCommentInput struct {
	UserID  string
	PostID  string
	Content string
}

type DeleteCommentInput struct {
	UserID    string
	PostID    string
	CommentID string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID string) (bool, error),
) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo, isAdmin: isAdmin}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 1000 characters)")
	}

	comment := &models.Comment{
		PostID:  in.PostID,
		UserID:  in.UserID,
		Content: content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, postID string, page, limit int) ([]*models.Comment, int64, error) {
	// A missing post is a 404, not an empty list.
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	comments, total, err := s.commentRepo.ListByPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return comments, total, nil
}

// DeleteComment allows the comment author, the post author, and admins.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.PostID != in.PostID {
		return models.NewNotFoundError("Comment", in.CommentID)
	}

	allowed := comment.UserID == in.UserID
	if !allowed {
		post, err := s.postRepo.GetByID(ctx, in.PostID)
		if err != nil {
			return err
		}
		allowed = post.UserID == in.UserID
	}
	if !allowed {
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		allowed = admin
	}
	if !allowed {
		return models.NewForbiddenError("Not allowed to delete this comment")
	}

	deleted, err := s.commentRepo.Delete(ctx, in.PostID, in.CommentID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("Comment", in.CommentID)
	}
	return nil
}
