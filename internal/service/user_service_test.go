package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/internal/service"
	"github.com/vishwam-chepuri/matching-app/internal/testutil"
	"github.com/vishwam-chepuri/matching-app/pkg/bcrypt"
	"gorm.io/gorm"
)

func TestListUsers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, e.db, "admin@example.com", true)
	a := testutil.CreateUser(t, e.db, "a@example.com", false)
	testutil.CreateProfile(t, e.db, a)
	testutil.CreateProfile(t, e.db, a)

	users, err := e.users.List(ctx, admin)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, admin.ID, users[0].ID)
	require.NotNil(t, users[0].ProfileCount)
	assert.Zero(t, *users[0].ProfileCount)
	assert.Equal(t, int64(2), *users[1].ProfileCount)

	_, err = e.users.List(ctx, a)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestUpdateUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, e.db, "admin@example.com", true)
	a := testutil.CreateUser(t, e.db, "a@example.com", false)
	testutil.CreateUser(t, e.db, "b@example.com", false)

	resp, err := e.users.Update(ctx, admin, a.ID, models.UpdateUserRequest{
		Name:     strPtr("Arjun"),
		Password: strPtr(""),
		IsAdmin:  boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Arjun", resp.Name)
	assert.True(t, resp.IsAdmin)

	var stored models.User
	require.NoError(t, e.db.First(&stored, a.ID).Error)
	assert.NoError(t, bcrypt.ComparePassword(stored.Password, testutil.Password))

	_, err = e.users.Update(ctx, admin, a.ID, models.UpdateUserRequest{Email: strPtr("B@Example.com")})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, "Email has already been taken", service.Message(err))

	_, err = e.users.Update(ctx, admin, a.ID, models.UpdateUserRequest{Password: strPtr("abc")})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = e.users.Update(ctx, admin, 9999, models.UpdateUserRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, "User not found", service.Message(err))

	resp, err = e.users.Update(ctx, admin, a.ID, models.UpdateUserRequest{Password: strPtr("newpass1")})
	require.NoError(t, err)
	require.NoError(t, e.db.First(&stored, a.ID).Error)
	assert.NoError(t, bcrypt.ComparePassword(stored.Password, "newpass1"))
}

func TestUpdateUserLosesRaceOnEmail(t *testing.T) {
	e := newEnv(t)
	admin := testutil.CreateUser(t, e.db, "admin@example.com", true)
	a := testutil.CreateUser(t, e.db, "a@example.com", false)

	require.NoError(t, e.db.Callback().Update().Before("gorm:update").Register("duplicate_users", func(tx *gorm.DB) {
		if tx.Statement.Table == "users" {
			tx.AddError(gorm.ErrDuplicatedKey)
		}
	}))

	_, err := e.users.Update(context.Background(), admin, a.ID, models.UpdateUserRequest{Email: strPtr("c@example.com")})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, "Email has already been taken", service.Message(err))
}

func TestDeleteUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, e.db, "admin@example.com", true)
	a := testutil.CreateUser(t, e.db, "a@example.com", false)
	p := testutil.CreateProfile(t, e.db, a)

	results, err := e.photos.Upload(ctx, a, p.ID, []models.PhotoUpload{
		{Data: jpegBytes, ContentType: "image/jpeg", Filename: "a.jpg"},
	})
	require.NoError(t, err)
	require.NoError(t, results[0].Err)

	err = e.users.Delete(ctx, admin, admin.ID)
	assert.ErrorIs(t, err, service.ErrInvalidOperation)
	assert.Equal(t, "Cannot delete your own account", service.Message(err))

	assert.ErrorIs(t, e.users.Delete(ctx, a, admin.ID), service.ErrForbidden)
	assert.ErrorIs(t, e.users.Delete(ctx, admin, 9999), service.ErrNotFound)

	require.NoError(t, e.users.Delete(ctx, admin, a.ID))
	assert.Zero(t, e.store.Len())

	var profiles int64
	require.NoError(t, e.db.Model(&models.Profile{}).Count(&profiles).Error)
	assert.Zero(t, profiles)

	var admins int64
	require.NoError(t, e.db.Model(&models.User{}).Where("id = ?", admin.ID).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)
}
