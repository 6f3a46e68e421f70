// Package service holds the business rules between the HTTP handlers and
// the repositories.
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"echowall/internal/models"
	"echowall/internal/repository"
)

const (
	maxContentLen = 5000
	maxPostImages = 4
)

type PostService struct {
	postRepo repository.PostRepository
	isAdmin  func(ctx context.Context, userID string) (bool, error)
}

type CreatePostInput struct {
	UserID  string
	Content string
	Images  []string
}

// UpdatePostInput carries PATCH semantics: nil fields are left untouched.
type UpdatePostInput struct {
	UserID  string
	PostID  string
	Content *string
	Images  *[]string
}

type DeletePostInput struct {
	UserID string
	PostID string
}

// LikeResult is the full post-toggle like state, returned so clients can
// reconcile an optimistic update in one round trip.
type LikeResult struct {
	Liked      bool     `json:"liked"`
	LikesCount int      `json:"likes_count"`
	Likes      []string `json:"likes"`
}

func NewPostService(
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID string) (bool, error),
) *PostService {
	return &PostService{postRepo: postRepo, isAdmin: isAdmin}
}

func validatePostBody(content string, images []string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" && len(images) == 0 {
		return "", models.NewValidationError("Post needs text or at least one image")
	}
	// Caps are in characters, not bytes, so multibyte text is not
	// penalized.
	if utf8.RuneCountInString(content) > maxContentLen {
		return "", models.NewValidationError("Content too long (max 5000 characters)")
	}
	if len(images) > maxPostImages {
		return "", models.NewValidationError("A post can carry at most 4 images")
	}
	for _, img := range images {
		if strings.TrimSpace(img) == "" {
			return "", models.NewValidationError("Image paths must not be empty")
		}
	}
	return content, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content, err := validatePostBody(in.Content, in.Images)
	if err != nil {
		return nil, err
	}
	if in.Images == nil {
		in.Images = []string{}
	}

	post := &models.Post{
		Content: content,
		Images:  in.Images,
		UserID:  in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context, page, limit int) (*models.PostPage, error) {
	offset := (page - 1) * limit
	posts, total, err := s.postRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return newPostPage(posts, total, page, limit), nil
}

func (s *PostService) ListPostsByUser(ctx context.Context, userID string, page, limit int) (*models.PostPage, error) {
	offset := (page - 1) * limit
	posts, total, err := s.postRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return newPostPage(posts, total, page, limit), nil
}

func newPostPage(posts []*models.Post, total int64, page, limit int) *models.PostPage {
	if posts == nil {
		posts = []*models.Post{}
	}
	return &models.PostPage{
		Items:   posts,
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: int64(page*limit) < total,
	}
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("Only the author can edit a post")
	}

	content := post.Content
	if in.Content != nil {
		content = *in.Content
	}
	images := post.Images
	if in.Images != nil {
		images = *in.Images
	}
	content, err = validatePostBody(content, images)
	if err != nil {
		return nil, err
	}

	post.Content = content
	post.Images = images
	if post.Images == nil {
		post.Images = []string{}
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("Only the author or an admin can delete a post")
		}
	}

	deleted, err := s.postRepo.Delete(ctx, in.PostID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("Post", in.PostID)
	}
	return nil
}

// ToggleLike flips the caller's like on a post and returns the resulting
// state.
func (s *PostService) ToggleLike(ctx context.Context, postID, userID string) (*LikeResult, error) {
	liked, likers, err := s.postRepo.ToggleLike(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{
		Liked:      liked,
		LikesCount: len(likers),
		Likes:      likers,
	}, nil
}
