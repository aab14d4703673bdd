package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomAvatarColor(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Contains(t, AvatarColors, RandomAvatarColor())
	}
}

type signup struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

func TestValidatorMessages(t *testing.T) {
	v := NewValidator()

	err := v.Struct(signup{Email: "nope", Password: "abc"})
	require.Error(t, err)
	assert.Equal(t, []string{
		"Email is invalid",
		"Password is too short (minimum is 6 characters)",
	}, Messages(err))

	err = v.Struct(signup{})
	require.Error(t, err)
	assert.Equal(t, []string{"Email can't be blank", "Password can't be blank"}, Messages(err))

	assert.NoError(t, v.Struct(signup{Email: "a@b.co", Password: "secret"}))
}

func TestSupportedImage(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Var("image/jpeg", "supported_image"))
	assert.NoError(t, v.Var("image/PNG", "supported_image"))
	assert.NoError(t, v.Var("image/webp", "supported_image"))
	assert.Error(t, v.Var("image/gif", "supported_image"))
	assert.Error(t, v.Var("application/pdf", "supported_image"))
}
