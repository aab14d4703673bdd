package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishwam-chepuri/matching-app/pkg/jwt"
)

func TestManager_RoundTrip(t *testing.T) {
	m := jwt.NewManager("test-secret")

	token, err := m.GenerateToken(42)
	require.NoError(t, err)

	userID, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestManager_Expiry(t *testing.T) {
	issued := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	clock := issued
	m := jwt.NewManager("test-secret").WithClock(func() time.Time { return clock })

	token, err := m.GenerateToken(7)
	require.NoError(t, err)

	clock = issued.Add(29 * 24 * time.Hour)
	_, err = m.ValidateToken(token)
	assert.NoError(t, err, "token is valid inside 30 days")

	clock = issued.Add(jwt.TokenExpiry + time.Minute)
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestManager_Rejects(t *testing.T) {
	m := jwt.NewManager("test-secret")

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewManager("other-secret").GenerateToken(1)
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := m.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("missing expiry", func(t *testing.T) {
		raw := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{"user_id": 1})
		token, err := raw.SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		raw := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{
			"user_id": 1,
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		token, err := raw.SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
