package repository

import (
	"context"
	"strings"

	"github.com/vishwam-chepuri/matching-app/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetByEmail matches case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", normalizeEmail(email)).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// EmailExists reports whether another user (not exceptID) holds email.
func (r *UserRepository) EmailExists(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("LOWER(email) = ?", normalizeEmail(email))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&users).Error
	return users, err
}

// ProfileCounts returns the number of owned profiles keyed by user id.
// Users without profiles are absent from the map.
func (r *UserRepository) ProfileCounts(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		UserID uint
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Select("user_id, COUNT(*) AS count").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.UserID] = row.Count
	}
	return counts, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	err := r.db.WithContext(ctx).
		Model(user).
		Select("name", "email", "password", "is_admin").
		Updates(user).Error
	return translate(err)
}

// DeleteCascade removes the user with every owned profile and photo row in
// one transaction and returns the photo locators that were referenced.
// Assets are left for the caller to remove once the transaction committed.
func (r *UserRepository) DeleteCascade(ctx context.Context, id uint) ([]string, error) {
	var locators []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return translate(err)
		}

		var profileIDs []uint
		if err := tx.Model(&models.Profile{}).Where("user_id = ?", id).Pluck("id", &profileIDs).Error; err != nil {
			return err
		}

		var err error
		locators, err = deleteProfiles(tx, profileIDs)
		if err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return locators, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
