package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const sessionCookiePath = "/"

// SessionCookie writes and expires the identity token cookie. Set and Clear share one set of
// attributes; a browser only replaces a cookie when name and path match.
type SessionCookie struct {
	Secure bool
}

// Set stores token until expires.
func (s SessionCookie) Set(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     sessionCookiePath,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Clear expires the session cookie in the browser.
func (s SessionCookie) Clear(c *fiber.Ctx) {
	ExpireCookie(c, SessionCookieName, sessionCookiePath, s.Secure)
}

// ExpireCookie deletes an HTTP-only, SameSite=Lax cookie that was set with path.
func ExpireCookie(c *fiber.Ctx, name, path string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Path:     path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
