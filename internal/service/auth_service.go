package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/internal/repository"
	"github.com/vishwam-chepuri/matching-app/pkg/bcrypt"
	"github.com/vishwam-chepuri/matching-app/pkg/jwt"
	"github.com/vishwam-chepuri/matching-app/pkg/utils"
	"go.uber.org/zap"
)

type AuthService struct {
	userRepo  *repository.UserRepository
	tokens    *jwt.Manager
	validator *utils.Validator
	log       *zap.Logger
}

func NewAuthService(
	userRepo *repository.UserRepository,
	tokens *jwt.Manager,
	validator *utils.Validator,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		validator: validator,
		log:       log,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationError(utils.Messages(err)...)
	}

	exists, err := s.userRepo.EmailExists(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewValidationError(msgEmailTaken)
	}

	hashedPassword, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
	}
	// EmailExists can race a concurrent registration; the unique index decides.
	err = s.userRepo.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, NewValidationError(msgEmailTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return s.issue(user)
}

// Login fails with the same error for a blank field, an unknown email and
// a wrong password.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, newError(ErrInvalidCredentials, "Invalid email or password")
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrInvalidCredentials, "Invalid email or password")
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		return nil, newError(ErrInvalidCredentials, "Invalid email or password")
	}

	return s.issue(user)
}

// Verify resolves a bearer token to its user. A token whose user was
// deleted is rejected.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	userID, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("token generation failed: %w", err)
	}
	return &models.AuthResponse{
		Token: token,
		User:  models.NewUserResponse(user),
	}, nil
}
