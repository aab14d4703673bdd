package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/vishwam-chepuri/matching-app/internal/authz"
	"github.com/vishwam-chepuri/matching-app/internal/filter"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/internal/repository"
	"github.com/vishwam-chepuri/matching-app/pkg/storage"
	"github.com/vishwam-chepuri/matching-app/pkg/utils"
	"go.uber.org/zap"
)

type ProfileService struct {
	profileRepo *repository.ProfileRepository
	storage     storage.Storage
	baseURL     string
	log         *zap.Logger
	now         func() time.Time
}

func NewProfileService(
	profileRepo *repository.ProfileRepository,
	store storage.Storage,
	baseURL string,
	log *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		storage:     store,
		baseURL:     baseURL,
		log:         log,
		now:         time.Now,
	}
}

// WithClock replaces the clock used for ages and default added dates.
func (s *ProfileService) WithClock(now func() time.Time) *ProfileService {
	s.now = now
	return s
}

// List returns the caller's profiles sorted by sortBy/sortDir and narrowed
// by criteria.
func (s *ProfileService) List(ctx context.Context, user *models.User, sortBy, sortDir string, criteria filter.Criteria) ([]models.ProfileResponse, error) {
	profiles, err := s.profileRepo.List(ctx, authz.ScopeFor(user), repository.ParseProfileSort(sortBy, sortDir))
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	now := s.now()
	if !criteria.Empty() {
		profiles = filter.View(profiles, criteria, now)
	}

	responses := make([]models.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, s.response(&profiles[i], now))
	}
	return responses, nil
}

func (s *ProfileService) Get(ctx context.Context, user *models.User, id uint) (*models.ProfileResponse, error) {
	profile, err := s.find(ctx, user, id)
	if err != nil {
		return nil, err
	}
	resp := s.response(profile, s.now())
	return &resp, nil
}

// Create always files the profile under the caller, whatever the input
// says about ownership.
func (s *ProfileService) Create(ctx context.Context, user *models.User, fields models.ProfileFields) (*models.ProfileResponse, error) {
	profile := &models.Profile{Status: models.StatusNew}
	fields.Apply(profile)

	profile.UserID = user.ID
	profile.AddedBy = user.DisplayName()
	if profile.Status == "" {
		profile.Status = models.StatusNew
	}
	if profile.AddedDate == nil || profile.AddedDate.IsZero() {
		today := models.Today(s.now())
		profile.AddedDate = &today
	}
	if strings.TrimSpace(profile.AvatarColor) == "" {
		profile.AvatarColor = utils.RandomAvatarColor()
	}

	if err := validateProfile(profile, fields.InvalidFields()...); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.log.Info("profile created", zap.Uint("profile_id", profile.ID), zap.Uint("user_id", user.ID))
	return s.Get(ctx, user, profile.ID)
}

// Update applies only the sent fields. Changing the starred flag of a
// profile the caller does not own is refused before anything is written.
func (s *ProfileService) Update(ctx context.Context, user *models.User, id uint, fields models.ProfileFields) (*models.ProfileResponse, error) {
	profile, err := s.find(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if fields.Starred != nil && *fields.Starred != profile.Starred {
		if err := authz.CanStar(user, profile); err != nil {
			return nil, newError(err, "Only the profile owner can star a profile")
		}
	}

	fields.Apply(profile)
	if err := validateProfile(profile, fields.InvalidFields()...); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	resp := s.response(profile, s.now())
	return &resp, nil
}

func (s *ProfileService) Delete(ctx context.Context, user *models.User, id uint) error {
	locators, err := s.profileRepo.DeleteCascade(ctx, authz.ScopeFor(user), id)
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrNotFound, "Profile not found")
	}
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	s.log.Info("profile deleted", zap.Uint("profile_id", id), zap.Uint("user_id", user.ID))
	removeAssets(ctx, s.storage, s.log, locators)
	return nil
}

func (s *ProfileService) find(ctx context.Context, user *models.User, id uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, authz.ScopeFor(user), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrNotFound, "Profile not found")
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) response(p *models.Profile, now time.Time) models.ProfileResponse {
	resp := models.ProfileResponse{
		Profile: p,
		Age:     p.Age(now),
		Photos:  photoResponses(p.Photos, s.baseURL),
	}
	if p.User.ID != 0 {
		resp.OwnerName = p.User.DisplayName()
		resp.Owner = &models.OwnerResponse{
			ID:    p.User.ID,
			Email: p.User.Email,
			Name:  p.User.Name,
		}
	}
	return resp
}

// validateProfile checks p after the request was applied. invalid names
// fields whose sent values could not be parsed.
func validateProfile(p *models.Profile, invalid ...string) error {
	var problems []string
	if strings.TrimSpace(p.FirstName) == "" {
		problems = append(problems, "First name can't be blank")
	}
	if strings.TrimSpace(p.LastName) == "" {
		problems = append(problems, "Last name can't be blank")
	}
	if slices.Contains(invalid, "Date of birth") {
		problems = append(problems, "Date of birth is invalid")
	} else if p.DateOfBirth.IsZero() {
		problems = append(problems, "Date of birth can't be blank")
	}
	if strings.TrimSpace(p.City) == "" {
		problems = append(problems, "City can't be blank")
	}
	if !p.Status.Valid() {
		problems = append(problems, "Status is not included in the list")
	}
	if p.HeightCm != nil && *p.HeightCm <= 0 {
		problems = append(problems, "Height cm must be greater than 0")
	}
	if p.Package != nil && *p.Package < 0 {
		problems = append(problems, "Package must be greater than or equal to 0")
	}
	for _, name := range invalid {
		if name != "Date of birth" {
			problems = append(problems, name+" is invalid")
		}
	}

	if len(problems) > 0 {
		return NewValidationError(problems...)
	}
	return nil
}

func photoResponses(photos []models.Photo, baseURL string) []models.PhotoResponse {
	out := make([]models.PhotoResponse, 0, len(photos))
	for i := range photos {
		out = append(out, photoResponse(&photos[i], baseURL))
	}
	return out
}

func photoResponse(p *models.Photo, baseURL string) models.PhotoResponse {
	return models.PhotoResponse{
		ID:       p.ID,
		URL:      storage.ResolveURL(baseURL, p.URL),
		Filename: p.Filename,
		Position: p.Position,
	}
}
