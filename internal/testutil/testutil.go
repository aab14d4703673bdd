// Package testutil opens throwaway databases and seeds fixtures for tests.
package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/pkg/bcrypt"
	"github.com/vishwam-chepuri/matching-app/pkg/database"
	"gorm.io/gorm"
)

const Password = "secret1"

// NewDB returns a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.RunMigrations(db, database.AdminSeed{}))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, email string, admin bool) *models.User {
	t.Helper()

	hash, err := bcrypt.HashPasswordWithCost(Password, 4)
	require.NoError(t, err)

	user := &models.User{Email: email, Password: hash, Name: nameFromEmail(email), IsAdmin: admin}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProfile inserts a minimal valid profile owned by owner. Mutators
// run before the insert.
func CreateProfile(t *testing.T, db *gorm.DB, owner *models.User, mutate ...func(*models.Profile)) *models.Profile {
	t.Helper()

	p := &models.Profile{
		UserID:      owner.ID,
		FirstName:   "Test",
		LastName:    "Profile",
		DateOfBirth: models.NewDate(1995, time.May, 10),
		City:        "Hyderabad",
		Status:      models.StatusNew,
		AddedBy:     owner.DisplayName(),
	}
	for _, m := range mutate {
		m(p)
	}
	require.NoError(t, db.Omit("User", "Photos").Create(p).Error)
	return p
}

func CreatePhoto(t *testing.T, db *gorm.DB, profileID uint, url string, position int) *models.Photo {
	t.Helper()

	photo := &models.Photo{ProfileID: profileID, URL: url, Position: position}
	require.NoError(t, db.Create(photo).Error)
	return photo
}

func nameFromEmail(email string) string {
	name, _, _ := strings.Cut(email, "@")
	return name
}
