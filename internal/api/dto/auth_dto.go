package dto

import (
	"time"

	"github.com/spec-kit/hospital-portal/internal/domain"
)

// SignUpRequest payload for new accounts.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest payload for password sign-in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IdentityResponse describes the signed-in identity.
type IdentityResponse struct {
	SubjectID string      `json:"subject_id"`
	Email     string      `json:"email"`
	Name      string      `json:"name,omitempty"`
	Role      domain.Role `json:"role,omitempty"`
}

// AuthResponse standard response for auth endpoints. Redirect is the landing page for the role.
type AuthResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Redirect  string           `json:"redirect"`
	User      IdentityResponse `json:"user"`
}

// NewIdentityResponse maps an identity.
func NewIdentityResponse(identity domain.Identity) IdentityResponse {
	return IdentityResponse{
		SubjectID: identity.SubjectID,
		Email:     identity.Email,
		Name:      identity.Name,
		Role:      identity.Role,
	}
}
