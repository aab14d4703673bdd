package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/internal/testutil"
	"github.com/vishwam-chepuri/matching-app/pkg/bcrypt"
	"github.com/vishwam-chepuri/matching-app/pkg/database"
)

func TestRunMigrationsSeedsAdmin(t *testing.T) {
	db := testutil.NewDB(t)

	seed := database.AdminSeed{Email: "Admin@Shaadi.local", Password: "admin123", Name: "Admin"}
	require.NoError(t, database.RunMigrations(db, seed))
	require.NoError(t, database.RunMigrations(db, seed))

	var admins []models.User
	require.NoError(t, db.Where("is_admin = ?", true).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@shaadi.local", admins[0].Email)
	assert.NoError(t, bcrypt.ComparePassword(admins[0].Password, "admin123"))
}

func TestRunMigrationsPromotesExistingUser(t *testing.T) {
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "boss@example.com", false)

	require.NoError(t, database.RunMigrations(db, database.AdminSeed{Email: "boss@example.com", Password: "ignored"}))

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.True(t, got.IsAdmin)
	assert.NoError(t, bcrypt.ComparePassword(got.Password, testutil.Password))
}

func TestRunMigrationsKeepsHashedPassword(t *testing.T) {
	db := testutil.NewDB(t)
	hash, err := bcrypt.HashPasswordWithCost("hunter22", 4)
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(db, database.AdminSeed{Email: "root@example.com", Password: hash}))

	var got models.User
	require.NoError(t, db.Where("email = ?", "root@example.com").First(&got).Error)
	assert.Equal(t, hash, got.Password)
}
