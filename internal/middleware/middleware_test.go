package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishwam-chepuri/matching-app/internal/models"
	"github.com/vishwam-chepuri/matching-app/internal/service"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeVerifier map[string]*models.User

func (f fakeVerifier) Verify(_ context.Context, token string) (*models.User, error) {
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, service.ErrUnauthorized
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("abc"))
	assert.Equal(t, "abc", bearerToken("  Bearer   abc "))
	assert.Equal(t, "", bearerToken(""))
}

func TestAuthAndAdmin(t *testing.T) {
	verifier := fakeVerifier{
		"user":  {ID: 1, Email: "u@example.com"},
		"admin": {ID: 2, Email: "a@example.com", IsAdmin: true},
	}

	app := fiber.New()
	app.Use(AuthMiddleware(verifier, zap.NewNop()))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Email)
	})
	app.Get("/admin", AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		path, token string
		want        int
	}{
		{"/me", "", http.StatusUnauthorized},
		{"/me", "bogus", http.StatusUnauthorized},
		{"/me", "user", http.StatusOK},
		{"/admin", "user", http.StatusForbidden},
		{"/admin", "admin", http.StatusOK},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.token != "" {
			req.Header.Set("Authorization", "Bearer "+tt.token)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, tt.want, resp.StatusCode, "%s with %q", tt.path, tt.token)
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadGateway, "upstream") })

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
	assert.Equal(t, int64(502), entries[1].ContextMap()["status"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}
