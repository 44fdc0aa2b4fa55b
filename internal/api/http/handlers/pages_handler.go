package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/auth"
	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/service"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util/errorutil"
)

const doctorIDParam = "doctorId"

// ProfileService is the subset of the profile service the page and profile endpoints use.
type ProfileService interface {
	Get(ctx context.Context, subjectID string, role domain.Role) (*domain.Profile, error)
	Update(ctx context.Context, subjectID string, role domain.Role, update service.ProfileUpdate) (*domain.Profile, error)
}

// PagesHandler serves the page routes behind the authorization gate. Rendering lives in the
// front end; these endpoints return the page model.
type PagesHandler struct {
	profiles        ProfileService
	providerEnabled bool
}

// NewPagesHandler constructs handler.
func NewPagesHandler(profiles ProfileService, providerEnabled bool) *PagesHandler {
	return &PagesHandler{profiles: profiles, providerEnabled: providerEnabled}
}

// Home handles GET /.
func (h *PagesHandler) Home(c *fiber.Ctx) error {
	data := fiber.Map{"page": "home", "signed_in": false}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		data["signed_in"] = true
		data["role"] = principal.Role
		data["dashboard"] = auth.DashboardPath(principal.Role, principal.Identity.SubjectID)
	}
	return c.JSON(fiber.Map{"data": data})
}

// Login handles GET /login.
func (h *PagesHandler) Login(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{
		"page":      "login",
		"providers": h.providers(),
		"error":     c.Query("error"),
	}})
}

// Signup handles GET /signup.
func (h *PagesHandler) Signup(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{
		"page":      "signup",
		"providers": h.providers(),
	}})
}

// Dashboard handles GET /:role/dashboard. Doctor dashboards must name the caller in doctorId.
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if principal.Role == domain.RoleDoctor {
		doctorID := c.Query(doctorIDParam)
		if doctorID == "" {
			return c.Redirect(auth.DashboardPath(principal.Role, principal.Identity.SubjectID), fiber.StatusFound)
		}
		if doctorID != principal.Identity.SubjectID {
			return apperrors.NewForbidden("dashboard belongs to another doctor")
		}
	}

	profile, err := h.profiles.Get(c.UserContext(), principal.Identity.SubjectID, principal.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"page":    "dashboard",
		"role":    principal.Role,
		"profile": dto.NewProfileResponse(profile),
	}})
}

func (h *PagesHandler) providers() []string {
	providers := []string{domain.ProviderPassword}
	if h.providerEnabled {
		providers = append(providers, domain.ProviderGoogle)
	}
	return providers
}
