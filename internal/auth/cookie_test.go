package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCookie_ClearMatchesSet(t *testing.T) {
	cookie := SessionCookie{Secure: true}
	expires := time.Now().Add(time.Hour).Truncate(time.Second)

	app := fiber.New()
	app.Post("/api/auth/login", func(c *fiber.Ctx) error {
		cookie.Set(c, "tok", expires)
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Post("/api/auth/logout", func(c *fiber.Ctx) error {
		cookie.Clear(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	set := sessionCookieFrom(t, app, "/api/auth/login")
	cleared := sessionCookieFrom(t, app, "/api/auth/logout")

	assert.Equal(t, "tok", set.Value)
	assert.True(t, set.Expires.Equal(expires))
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.Expires.Before(time.Now()))

	for _, c := range []*http.Cookie{set, cleared} {
		assert.Equal(t, "/", c.Path)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	}
}

func sessionCookieFrom(t *testing.T, app *fiber.App, path string) *http.Cookie {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, path, nil))
	require.NoError(t, err)
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	require.FailNow(t, "session cookie not written")
	return nil
}
