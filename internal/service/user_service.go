package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"echowall/internal/models"
	"echowall/internal/repository"
)

const maxBioLen = 500

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUser resolves an ID-or-username path segment. IDs win when both match.
func (s *UserService) GetUser(ctx context.Context, idOrUsername string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, idOrUsername)
	if err == nil {
		return user, nil
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
		return nil, err
	}

	user, err = s.userRepo.GetByUsername(ctx, idOrUsername)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", idOrUsername)
	}
	return user, nil
}

// ListUsers returns the raw join-order listing, or the activity order when
// the community view asks for it.
func (s *UserService) ListUsers(ctx context.Context, byActivity bool) ([]models.User, error) {
	if byActivity {
		return s.userRepo.ListByActivity(ctx)
	}
	return s.userRepo.List(ctx)
}

type UpdateBioInput struct {
	CallerID string
	UserID   string
	Bio      string
}

func (s *UserService) UpdateBio(ctx context.Context, in UpdateBioInput) (*models.User, error) {
	if in.CallerID != in.UserID {
		return nil, models.NewForbiddenError("Profiles can only be edited by their owner")
	}
	bio := strings.TrimSpace(in.Bio)
	if utf8.RuneCountInString(bio) > maxBioLen {
		return nil, models.NewValidationError("Bio too long (max 500 characters)")
	}
	return s.userRepo.UpdatePartial(ctx, in.UserID, map[string]interface{}{"bio": bio})
}

// IsAdmin reports whether the user currently carries the admin flag. The
// post and comment services take this as their permission hook.
func (s *UserService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}
