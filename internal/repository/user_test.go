package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"echowall/internal/database"
	"echowall/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		userID        string
		mockBehavior  func()
		expectedUser  *models.User
		expectedError bool
	}{
		{
			name:   "Success",
			userID: "583231",
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "avatar_url"}).
					AddRow("583231", "octocat", "https://avatars.example/583231")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
					WithArgs("583231", 1).
					WillReturnRows(rows)
			},
			expectedUser: &models.User{ID: "583231", Username: "octocat"},
		},
		{
			name:   "Not Found",
			userID: "999",
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
					WithArgs("999", 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedError {
				assert.Error(t, err)
				var appErr *models.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, "NOT_FOUND", appErr.Code)
			} else if assert.NotNil(t, user) {
				assert.Equal(t, tt.expectedUser.Username, user.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WithArgs("583231", 1).
		WillReturnError(errors.New("connection timeout"))

	user, err := repo.GetByID(ctx, "583231")
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "username"}).AddRow("583231", "octocat")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE LOWER(username) = LOWER($1)`)).
			WithArgs("OctoCat", 1).
			WillReturnRows(rows)

		user, err := repo.GetByUsername(ctx, "OctoCat")
		assert.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "octocat", user.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE LOWER(username) = LOWER($1)`)).
			WithArgs("ghost", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		user, err := repo.GetByUsername(ctx, "ghost")
		assert.NoError(t, err) // Absent users are nil, nil; callers decide the status
		assert.Nil(t, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.False(t, isUniqueConstraintError(errors.New("connection refused")))
	assert.True(t, isUniqueConstraintError(errors.New(`duplicate key value violates unique constraint "users_username_key"`)))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: users.username")))
	assert.True(t, isUniqueConstraintError(errors.New("ERROR: some violation (SQLSTATE 23505)")))
}

func TestUserRepository_Upsert(t *testing.T) {
	db := database.OpenTest(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{ID: "583231", Username: "octocat", AvatarURL: "https://avatars.example/old"}
	require.NoError(t, repo.Upsert(ctx, user))

	// A later login with refreshed profile fields updates in place.
	require.NoError(t, repo.Upsert(ctx, &models.User{
		ID:        "583231",
		Username:  "octocat-renamed",
		AvatarURL: "https://avatars.example/new",
		IsAdmin:   true,
	}))

	got, err := repo.GetByID(ctx, "583231")
	require.NoError(t, err)
	assert.Equal(t, "octocat-renamed", got.Username)
	assert.Equal(t, "https://avatars.example/new", got.AvatarURL)
	assert.True(t, got.IsAdmin)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUserRepository_GetByUsernameCaseInsensitive(t *testing.T) {
	db := database.OpenTest(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.User{ID: "1", Username: "Alice"}))

	for _, lookup := range []string{"alice", "ALICE", "Alice", "aLiCe"} {
		got, err := repo.GetByUsername(ctx, lookup)
		require.NoError(t, err)
		require.NotNil(t, got, "lookup %q should match", lookup)
		assert.Equal(t, "Alice", got.Username)
	}

	got, err := repo.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepository_ListOrders(t *testing.T) {
	db := database.OpenTest(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	mk := func(id, username string, joined time.Time) {
		require.NoError(t, db.Create(&models.User{ID: id, Username: username, JoinedAt: joined}).Error)
	}
	base := time.Now().Add(-24 * time.Hour)
	mk("1", "alice", base)
	mk("2", "bob", base.Add(time.Hour))
	mk("3", "carol", base.Add(2*time.Hour))

	// alice posts last, so she leads the activity order despite joining first.
	require.NoError(t, posts.Create(ctx, &models.Post{Content: "from bob", UserID: "2"}))
	require.NoError(t, posts.Create(ctx, &models.Post{Content: "from alice", UserID: "1", CreatedAt: time.Now().Add(time.Minute)}))

	byJoin, err := users.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol", "bob", "alice"}, usernames(byJoin))

	byActivity, err := users.ListByActivity(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, usernames(byActivity), "never-posted users sort last")
}

func usernames(users []models.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Username
	}
	return out
}

func TestUserRepository_UpdatePartial(t *testing.T) {
	db := database.OpenTest(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.User{ID: "1", Username: "alice"}))

	got, err := repo.UpdatePartial(ctx, "1", map[string]interface{}{"bio": "hello world"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", got.Bio)
	assert.Equal(t, "alice", got.Username)

	_, err = repo.UpdatePartial(ctx, "missing", map[string]interface{}{"bio": "x"})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}
