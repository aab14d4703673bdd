package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/vishwam-chepuri/matching-app/internal/authz"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/internal/repository"
	"github.com/vishwam-chepuri/matching-app/pkg/storage"
	"github.com/vishwam-chepuri/matching-app/pkg/utils"
	"go.uber.org/zap"
)

// MaxPhotoSize is the largest accepted photo (6 MiB).
const MaxPhotoSize = 6 << 20

// UploadResult is the outcome of one file in an upload request.
type UploadResult struct {
	Filename string
	Photo    *models.PhotoResponse
	Err      error
}

type PhotoService struct {
	profileRepo *repository.ProfileRepository
	photoRepo   *repository.PhotoRepository
	storage     storage.Storage
	validator   *utils.Validator
	baseURL     string
	log         *zap.Logger
}

func NewPhotoService(
	profileRepo *repository.ProfileRepository,
	photoRepo *repository.PhotoRepository,
	store storage.Storage,
	validator *utils.Validator,
	baseURL string,
	log *zap.Logger,
) *PhotoService {
	return &PhotoService{
		profileRepo: profileRepo,
		photoRepo:   photoRepo,
		storage:     store,
		validator:   validator,
		baseURL:     baseURL,
		log:         log,
	}
}

// Upload stores each file independently; one rejected file does not stop
// the others. The returned error is only set when the request as a whole
// cannot proceed.
func (s *PhotoService) Upload(ctx context.Context, user *models.User, profileID uint, uploads []models.PhotoUpload) ([]UploadResult, error) {
	if err := s.requireProfile(ctx, user, profileID); err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, NewValidationError("file is required")
	}

	count, err := s.photoRepo.CountByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	results := make([]UploadResult, 0, len(uploads))
	for _, upload := range uploads {
		photo, err := s.uploadOne(ctx, profileID, upload, count)
		if err == nil {
			count++
		}
		results = append(results, UploadResult{Filename: upload.Filename, Photo: photo, Err: err})
	}
	return results, nil
}

func (s *PhotoService) uploadOne(ctx context.Context, profileID uint, upload models.PhotoUpload, count int64) (*models.PhotoResponse, error) {
	if upload.Err != nil {
		return nil, upload.Err
	}
	contentType := detectContentType(upload)
	if err := s.validator.Var(contentType, "supported_image"); err != nil {
		return nil, newError(ErrUnsupportedType, "Only JPEG, PNG, and WEBP images are allowed")
	}
	if len(upload.Data) > MaxPhotoSize {
		return nil, newError(ErrTooLarge, "File size must be under 6MB")
	}
	// Early out before storing; CreateWithinLimit holds the authoritative check.
	if count >= models.MaxPhotosPerProfile {
		return nil, photoLimitError()
	}

	locator, err := s.storage.Store(ctx, upload.Data, storage.NewKey(upload.Filename), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	photo := &models.Photo{
		ProfileID: profileID,
		URL:       locator,
		Filename:  upload.Filename,
	}
	err = s.photoRepo.CreateWithinLimit(ctx, photo, models.MaxPhotosPerProfile, upload.Position)
	if err != nil {
		// Nothing references the asset yet; drop it.
		removeAssets(ctx, s.storage, s.log, []string{locator})
		if errors.Is(err, repository.ErrLimitReached) {
			return nil, photoLimitError()
		}
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}

	s.log.Info("photo uploaded",
		zap.Uint("profile_id", profileID),
		zap.Uint("photo_id", photo.ID),
		zap.Int("size", len(upload.Data)),
	)
	resp := photoResponse(photo, s.baseURL)
	return &resp, nil
}

// Delete removes the photo row and then its stored asset.
func (s *PhotoService) Delete(ctx context.Context, user *models.User, profileID, photoID uint) error {
	if err := s.requireProfile(ctx, user, profileID); err != nil {
		return err
	}

	photo, err := s.photoRepo.GetForProfile(ctx, profileID, photoID)
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrNotFound, "Photo not found")
	}
	if err != nil {
		return err
	}

	if err := s.photoRepo.Delete(ctx, photo); err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	removeAssets(ctx, s.storage, s.log, []string{photo.URL})
	return nil
}

func photoLimitError() error {
	return newError(ErrPhotoLimit, fmt.Sprintf("A profile can have at most %d photos", models.MaxPhotosPerProfile))
}

func (s *PhotoService) requireProfile(ctx context.Context, user *models.User, profileID uint) error {
	ok, err := s.profileRepo.Exists(ctx, authz.ScopeFor(user), profileID)
	if err != nil {
		return err
	}
	if !ok {
		return newError(ErrNotFound, "Profile not found")
	}
	return nil
}

// detectContentType trusts a declared type and sniffs the bytes when none
// was declared.
func detectContentType(upload models.PhotoUpload) string {
	declared := strings.TrimSpace(upload.ContentType)
	if declared != "" && declared != "application/octet-stream" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			return strings.ToLower(mediaType)
		}
		return strings.ToLower(declared)
	}
	mediaType, _, _ := mime.ParseMediaType(mimetype.Detect(upload.Data).String())
	return mediaType
}
