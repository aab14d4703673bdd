package repository

import (
	"context"
	"errors"

	"github.com/vishwam-chepuri/matching-app/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{
		db: db,
	}
}

// ErrLimitReached is returned by CreateWithinLimit when the profile already
// holds limit photos.
var ErrLimitReached = errors.New("photo limit reached")

// CreateWithinLimit inserts photo unless its profile already has limit
// photos. The profile row is locked for the count and insert, so concurrent
// uploads to one profile queue up. A nil position appends after the
// existing photos.
func (r *PhotoRepository) CreateWithinLimit(ctx context.Context, photo *models.Photo, limit int, position *int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&profile, photo.ProfileID).Error
		if err != nil {
			return translate(err)
		}

		var count int64
		if err := tx.Model(&models.Photo{}).Where("profile_id = ?", photo.ProfileID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(limit) {
			return ErrLimitReached
		}

		photo.Position = int(count)
		if position != nil {
			photo.Position = *position
		}
		return tx.Create(photo).Error
	})
}

// GetForProfile returns ErrNotFound when the photo does not belong to the
// profile.
func (r *PhotoRepository) GetForProfile(ctx context.Context, profileID, photoID uint) (*models.Photo, error) {
	var photo models.Photo
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		First(&photo, photoID).Error
	if err != nil {
		return nil, translate(err)
	}
	return &photo, nil
}

func (r *PhotoRepository) CountByProfile(ctx context.Context, profileID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Photo{}).Where("profile_id = ?", profileID).Count(&count).Error
	return count, err
}

func (r *PhotoRepository) Delete(ctx context.Context, photo *models.Photo) error {
	return r.db.WithContext(ctx).Delete(photo).Error
}
