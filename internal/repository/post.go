// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"echowall/internal/cache"
	"echowall/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
//
// Create, Delete and ToggleLike adjust the denormalized counters on the
// owning rows inside the same transaction as the row writes, so a reader
// never observes a post without its owner's post_count having moved.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, int64, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) (bool, error)
	ToggleLike(ctx context.Context, postID, userID string) (bool, []string, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return models.NewInternalError(err)
		}
		res := tx.Model(&models.User{}).
			Where("id = ?", post.UserID).
			Updates(map[string]interface{}{
				"post_count":   gorm.Expr("post_count + 1"),
				"last_post_at": post.CreatedAt,
			})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", post.UserID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidatePostsList(ctx)
	cache.InvalidateUser(ctx, post.UserID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("User").
			First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return r.attachLikes(ctx, []*models.Post{&post})
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&models.Post{}), limit, offset)
}

func (r *postRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID)
	return r.list(ctx, q, limit, offset)
}

func (r *postRepository) list(ctx context.Context, q *gorm.DB, limit, offset int) ([]*models.Post, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []*models.Post
	if err := q.
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	if err := r.attachLikes(ctx, posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// attachLikes populates the read-side liker ID lists for the given posts.
func (r *postRepository) attachLikes(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	var likes []models.Like
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", ids).
		Order("id ASC").
		Find(&likes).Error; err != nil {
		return models.NewInternalError(err)
	}

	byPost := make(map[string][]string, len(posts))
	for _, l := range likes {
		byPost[l.PostID] = append(byPost[l.PostID], l.UserID)
	}
	for _, p := range posts {
		p.Likes = byPost[p.ID]
		if p.Likes == nil {
			p.Likes = []string{}
		}
		p.LikesCount = len(p.Likes)
	}
	return nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	// Only content and images are mutable; user_id and created_at never move.
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", post.ID).
		Select("content", "images", "updated_at").
		Updates(map[string]interface{}{
			"content": post.Content,
			"images":  post.Images,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes the post with all its comments and likes, decrements the
// owner's post_count floored at zero, and recomputes last_post_at from the
// surviving posts. Returns false when the post was already gone.
func (r *postRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted := false
	var ownerID string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "user_id").First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return models.NewInternalError(err)
		}
		ownerID = post.UserID

		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Delete(&models.Post{}, "id = ?", id).Error; err != nil {
			return models.NewInternalError(err)
		}

		// The post row is gone at this point, so MAX(created_at) sees
		// only the surviving posts and goes NULL when none remain.
		res := tx.Model(&models.User{}).
			Where("id = ?", ownerID).
			Updates(map[string]interface{}{
				"post_count":   gorm.Expr("CASE WHEN post_count > 0 THEN post_count - 1 ELSE 0 END"),
				"last_post_at": gorm.Expr("(SELECT MAX(created_at) FROM posts WHERE user_id = ?)", ownerID),
			})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}

		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if deleted {
		cache.InvalidatePost(ctx, id)
		cache.InvalidateUser(ctx, ownerID)
	}
	return deleted, nil
}

// ToggleLike inserts a like when absent and removes it when present,
// returning the resulting liked flag and the full liker-ID list so callers
// can reconcile without a second read.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, []string, error) {
	var liked bool
	var likers []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&exists).Error; err != nil {
			return models.NewInternalError(err)
		}
		if exists == 0 {
			return models.NewNotFoundError("Post", postID)
		}

		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(&models.Like{PostID: postID, UserID: userID}).Error; err != nil {
				// A concurrent toggle won the insert; the like exists either way.
				if !isUniqueConstraintError(err) {
					return models.NewInternalError(err)
				}
			}
			liked = true
		}

		likers = []string{}
		if err := tx.Model(&models.Like{}).
			Where("post_id = ?", postID).
			Order("id ASC").
			Pluck("user_id", &likers).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return false, nil, err
	}

	cache.InvalidatePost(ctx, postID)
	return liked, likers, nil
}
