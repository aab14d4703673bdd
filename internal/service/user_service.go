package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vishwam-chepuri/matching-app/internal/authz"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/internal/repository"
	"github.com/vishwam-chepuri/matching-app/pkg/bcrypt"
	"github.com/vishwam-chepuri/matching-app/pkg/storage"
	"github.com/vishwam-chepuri/matching-app/pkg/utils"
	"go.uber.org/zap"
)

const (
	minPasswordLength = 6
	msgEmailTaken     = "Email has already been taken"
)

type UserService struct {
	userRepo  *repository.UserRepository
	storage   storage.Storage
	validator *utils.Validator
	log       *zap.Logger
}

func NewUserService(
	userRepo *repository.UserRepository,
	store storage.Storage,
	validator *utils.Validator,
	log *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		storage:   store,
		validator: validator,
		log:       log,
	}
}

// List returns every user with their profile count. Admin only.
func (s *UserService) List(ctx context.Context, actor *models.User) ([]models.UserResponse, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, newError(err, "Forbidden")
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.userRepo.ProfileCounts(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, withCount(&users[i], counts[users[i].ID]))
	}
	return responses, nil
}

func (s *UserService) Update(ctx context.Context, actor *models.User, id uint, req models.UpdateUserRequest) (*models.UserResponse, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, newError(err, "Forbidden")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}

	var problems []string
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		switch {
		case email == "":
			problems = append(problems, "Email can't be blank")
		case s.validator.Var(email, "email") != nil:
			problems = append(problems, "Email is invalid")
		default:
			taken, err := s.userRepo.EmailExists(ctx, email, user.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				problems = append(problems, msgEmailTaken)
			}
			user.Email = email
		}
	}
	// A blank password leaves the current one in place.
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < minPasswordLength {
			problems = append(problems, fmt.Sprintf("Password is too short (minimum is %d characters)", minPasswordLength))
		} else {
			hashed, err := bcrypt.HashPassword(*req.Password)
			if err != nil {
				return nil, err
			}
			user.Password = hashed
		}
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if len(problems) > 0 {
		return nil, NewValidationError(problems...)
	}

	err = s.userRepo.Update(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, NewValidationError(msgEmailTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	counts, err := s.userRepo.ProfileCounts(ctx)
	if err != nil {
		return nil, err
	}
	resp := withCount(user, counts[user.ID])
	return &resp, nil
}

// Delete removes a user with all of their profiles and photos. Stored
// assets are removed after the rows are gone.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := authz.CanDeleteUser(actor, id); err != nil {
		if errors.Is(err, authz.ErrInvalidOperation) {
			return newError(err, "Cannot delete your own account")
		}
		return newError(err, "Forbidden")
	}

	locators, err := s.userRepo.DeleteCascade(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrNotFound, "User not found")
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.log.Info("user deleted",
		zap.Uint("user_id", id),
		zap.Uint("actor_id", actor.ID),
		zap.Int("photos", len(locators)),
	)
	removeAssets(ctx, s.storage, s.log, locators)
	return nil
}

func withCount(user *models.User, count int64) models.UserResponse {
	resp := models.NewUserResponse(user)
	resp.ProfileCount = &count
	return resp
}
