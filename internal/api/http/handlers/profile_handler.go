package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hospital-portal/internal/api/dto"
	"github.com/spec-kit/hospital-portal/internal/auth"
	"github.com/spec-kit/hospital-portal/internal/service"
	apperrors "github.com/spec-kit/hospital-portal/pkg/util/errorutil"
)

// ProfileHandler lets callers read and edit their own profile.
type ProfileHandler struct {
	profiles ProfileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /:role/profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	profile, err := h.profiles.Get(c.UserContext(), principal.Identity.SubjectID, principal.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}

// Update handles PUT /:role/profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	profile, err := h.profiles.Update(c.UserContext(), principal.Identity.SubjectID, principal.Role, service.ProfileUpdate{
		Name:       req.Name,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProfileResponse(profile)})
}
