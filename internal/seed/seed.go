// Package seed creates demo data for development environments. All writes
// go through the repositories so the denormalized counters stay consistent
// with the seeded rows.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"echowall/internal/models"
	"echowall/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	MaxComments int
	ShouldClean bool
}

// Seeder populates the database with generated users, posts, comments and
// likes.
type Seeder struct {
	db       *gorm.DB
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	rand     *rand.Rand
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:       db,
		users:    repository.NewUserRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll wipes all seeded entities, children first.
func (s *Seeder) ClearAll() error {
	for _, model := range []interface{}{
		&models.Like{}, &models.Comment{}, &models.Post{}, &models.User{},
	} {
		if err := s.db.Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", model, err)
		}
	}
	return nil
}

// Run seeds the database according to opts.
func (s *Seeder) Run(ctx context.Context, opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.seedUsers(ctx, opts.NumUsers)
	if err != nil {
		return err
	}
	posts, err := s.seedPosts(ctx, users, opts.NumPosts)
	if err != nil {
		return err
	}
	if err := s.seedComments(ctx, users, posts, opts.MaxComments); err != nil {
		return err
	}
	if err := s.seedLikes(ctx, users, posts); err != nil {
		return err
	}

	log.Printf("seeded %d users, %d posts", len(users), len(posts))
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := s.BuildUser(i)
		if err := s.users.Upsert(ctx, user); err != nil {
			return nil, fmt.Errorf("seeding user %s: %w", user.Username, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// BuildUser constructs a fake user without persisting it. The ID space is
// offset so seeded IDs never collide with real provider IDs in dev
// databases.
func (s *Seeder) BuildUser(i int) *models.User {
	username := fmt.Sprintf("%s%d", gofakeit.Username(), i)
	return &models.User{
		ID:        fmt.Sprintf("seed-%d", 1000+i),
		Username:  username,
		AvatarURL: fmt.Sprintf("https://picsum.photos/seed/%s/200/200", username),
		Bio:       gofakeit.Sentence(8),
	}
}

func (s *Seeder) seedPosts(ctx context.Context, users []*models.User, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		post := &models.Post{
			Content:   gofakeit.Paragraph(1, 3, 8, "\n\n"),
			Images:    []string{},
			UserID:    author.ID,
			CreatedAt: s.pastTimestamp(90),
		}
		// Roughly a quarter of posts carry an image.
		if s.rand.Intn(4) == 0 {
			post.Images = []string{fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())}
		}
		if err := s.posts.Create(ctx, post); err != nil {
			return nil, fmt.Errorf("seeding post for %s: %w", author.Username, err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) seedComments(ctx context.Context, users []*models.User, posts []*models.Post, maxPerPost int) error {
	if maxPerPost <= 0 {
		maxPerPost = 5
	}
	for _, post := range posts {
		for i := 0; i < s.rand.Intn(maxPerPost+1); i++ {
			commenter := users[s.rand.Intn(len(users))]
			comment := &models.Comment{
				PostID:  post.ID,
				UserID:  commenter.ID,
				Content: gofakeit.Sentence(12),
			}
			if err := s.comments.Create(ctx, comment); err != nil {
				return fmt.Errorf("seeding comment on %s: %w", post.ID, err)
			}
		}
	}
	return nil
}

func (s *Seeder) seedLikes(ctx context.Context, users []*models.User, posts []*models.Post) error {
	for _, post := range posts {
		// Each user likes roughly a third of the feed.
		for _, user := range users {
			if s.rand.Intn(3) != 0 {
				continue
			}
			if _, _, err := s.posts.ToggleLike(ctx, post.ID, user.ID); err != nil {
				return fmt.Errorf("seeding like on %s: %w", post.ID, err)
			}
		}
	}
	return nil
}

func (s *Seeder) pastTimestamp(maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(s.rand.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(s.rand.Intn(24*60)) * time.Minute)
}
