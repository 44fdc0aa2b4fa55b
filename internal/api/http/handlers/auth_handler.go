package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/auth"
	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/service"
)

const (
	oauthStateCookie     = "oauth-state"
	oauthStateCookiePath = "/api/auth"
	minPasswordLen       = 6
)

// CredentialService is the subset of the credential service the auth endpoints use.
type CredentialService interface {
	SignUp(ctx context.Context, name, email, password string) (*service.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*service.Session, error)
	ProviderAuthURL(state string) (string, error)
	SignInWithProvider(ctx context.Context, code string) (*service.Session, error)
	VerifyToken(ctx context.Context, token string) (*domain.Identity, error)
	SignOut(ctx context.Context, identity *domain.Identity) error
	Refresh(ctx context.Context, identity *domain.Identity) (*service.Session, error)
}

// AuthHandler exposes the JSON sign-in API and maintains the session cookie.
type AuthHandler struct {
	creds  CredentialService
	cookie auth.SessionCookie
	logger *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(creds CredentialService, cookieSecure bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{creds: creds, cookie: auth.SessionCookie{Secure: cookieSecure}, logger: logger}
}

// SignUp handles POST /api/auth/signup.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password required")
	}
	if len(req.Password) < minPasswordLen {
		return fiber.NewError(http.StatusBadRequest, "password must be at least 6 characters")
	}

	session, err := h.creds.SignUp(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, session)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": authResponse(session)})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	session, err := h.creds.SignInWithPassword(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, session)
	return c.JSON(fiber.Map{"data": authResponse(session)})
}

// Google handles GET /api/auth/google by redirecting to the consent screen.
func (h *AuthHandler) Google(c *fiber.Ctx) error {
	state := uuid.NewString()
	url, err := h.creds.ProviderAuthURL(state)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     oauthStateCookiePath,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(url, fiber.StatusFound)
}

// GoogleCallback handles GET /api/auth/google/callback. Failures send the browser back to the
// login page.
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	state := c.Cookies(oauthStateCookie)
	auth.ExpireCookie(c, oauthStateCookie, oauthStateCookiePath, h.cookie.Secure)
	if state == "" || c.Query("state") != state {
		return c.Redirect(auth.LoginPath+"?error=state", fiber.StatusFound)
	}
	code := c.Query("code")
	if code == "" {
		return c.Redirect(auth.LoginPath+"?error=provider", fiber.StatusFound)
	}

	session, err := h.creds.SignInWithProvider(c.UserContext(), code)
	if err != nil {
		h.logger.Warn("provider sign-in failed", zap.Error(err))
		return c.Redirect(auth.LoginPath+"?error=provider", fiber.StatusFound)
	}
	h.setSessionCookie(c, session)
	return c.Redirect(landingPage(session.Identity), fiber.StatusFound)
}

// Logout handles POST /api/auth/logout. It always clears the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(auth.SessionCookieName)
	h.cookie.Clear(c)
	if token != "" {
		if identity, err := h.creds.VerifyToken(c.UserContext(), token); err == nil {
			if err := h.creds.SignOut(c.UserContext(), identity); err != nil {
				return err
			}
		}
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"redirect": auth.LoginPath}})
}

// Refresh handles POST /api/auth/refresh, reissuing the token with the current role.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	identity, err := h.creds.VerifyToken(c.UserContext(), c.Cookies(auth.SessionCookieName))
	if err != nil {
		h.cookie.Clear(c)
		return err
	}
	session, err := h.creds.Refresh(c.UserContext(), identity)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, session)
	return c.JSON(fiber.Map{"data": authResponse(session)})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, session *service.Session) {
	h.cookie.Set(c, session.Token, session.Identity.ExpiresAt)
}

func authResponse(session *service.Session) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     session.Token,
		ExpiresAt: session.Identity.ExpiresAt,
		Redirect:  landingPage(session.Identity),
		User:      dto.NewIdentityResponse(session.Identity),
	}
}

func landingPage(identity domain.Identity) string {
	if !identity.Role.Valid() {
		return "/"
	}
	return auth.DashboardPath(identity.Role, identity.SubjectID)
}
