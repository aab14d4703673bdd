package repository

import (
	"context"
	"strings"

	"github.com/vishwam-chepuri/matching-app/internal/authz"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileSort is a resolved ordering for profile lists.
type ProfileSort struct {
	Column string
	Desc   bool
}

var sortColumns = map[string]string{
	"height":  "height_cm",
	"dob":     "date_of_birth",
	"package": "package",
	"status":  "status",
}

// ParseProfileSort maps a client sort key onto a column. Sorting by age
// orders by date of birth in the opposite direction. Unknown or empty keys
// fall back to newest first.
func ParseProfileSort(sortBy, sortDir string) ProfileSort {
	desc := strings.EqualFold(strings.TrimSpace(sortDir), "desc")
	key := strings.ToLower(strings.TrimSpace(sortBy))

	if key == "age" {
		return ProfileSort{Column: "date_of_birth", Desc: !desc}
	}
	if column, ok := sortColumns[key]; ok {
		return ProfileSort{Column: column, Desc: desc}
	}
	return ProfileSort{Column: "created_at", Desc: true}
}

func (s ProfileSort) clause() clause.OrderBy {
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Table: "profiles", Name: s.Column}, Desc: s.Desc},
		{Column: clause.Column{Table: "profiles", Name: "id"}, Desc: s.Desc},
	}}
}

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func withPhotosAndOwner(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("User")
}

func (r *ProfileRepository) List(ctx context.Context, scope authz.Scope, sort ProfileSort) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.WithContext(ctx).
		Scopes(scope.Profiles, withPhotosAndOwner).
		Order(sort.clause()).
		Find(&profiles).Error
	return profiles, err
}

// GetByID returns ErrNotFound both for missing ids and for profiles
// outside scope.
func (r *ProfileRepository) GetByID(ctx context.Context, scope authz.Scope, id uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Scopes(scope.Profiles, withPhotosAndOwner).
		First(&profile, "profiles.id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (r *ProfileRepository) Exists(ctx context.Context, scope authz.Scope, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Scopes(scope.Profiles).
		Where("profiles.id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(profile).Error
}

func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(profile).Error
}

// DeleteCascade removes an in-scope profile and its photo rows in one
// transaction and returns the photo locators that were referenced.
func (r *ProfileRepository) DeleteCascade(ctx context.Context, scope authz.Scope, id uint) ([]string, error) {
	var locators []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.Scopes(scope.Profiles).First(&profile, "profiles.id = ?", id).Error; err != nil {
			return translate(err)
		}

		var err error
		locators, err = deleteProfiles(tx, []uint{profile.ID})
		return err
	})
	if err != nil {
		return nil, err
	}
	return locators, nil
}

// deleteProfiles deletes photo rows before their profiles so no foreign
// key is left dangling. It must run inside a transaction.
func deleteProfiles(tx *gorm.DB, profileIDs []uint) ([]string, error) {
	if len(profileIDs) == 0 {
		return nil, nil
	}

	var locators []string
	if err := tx.Model(&models.Photo{}).
		Where("profile_id IN ?", profileIDs).
		Order("profile_id ASC, position ASC, id ASC").
		Pluck("url", &locators).Error; err != nil {
		return nil, err
	}

	if err := tx.Where("profile_id IN ?", profileIDs).Delete(&models.Photo{}).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("id IN ?", profileIDs).Delete(&models.Profile{}).Error; err != nil {
		return nil, err
	}
	return locators, nil
}
