package dto

import (
	"time"

	"github.com/spec-kit/hospital-portal/internal/domain"
)

// ProfileResponse is the public shape of a profile. Department is present for doctors only.
type ProfileResponse struct {
	SubjectID  string      `json:"subject_id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	Department *string     `json:"department,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// UpdateProfileRequest payload for profile edits; omitted fields are left unchanged.
type UpdateProfileRequest struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
}

// SessionStateResponse is one event on the session stream.
type SessionStateResponse struct {
	Status  string           `json:"status"`
	Loading bool             `json:"loading"`
	Profile *ProfileResponse `json:"profile"`
	Error   string           `json:"error,omitempty"`
}

// NewProfileResponse maps a profile; nil stays nil.
func NewProfileResponse(profile *domain.Profile) *ProfileResponse {
	if profile == nil {
		return nil
	}
	resp := &ProfileResponse{
		SubjectID: profile.SubjectID,
		Name:      profile.Name,
		Email:     profile.Email,
		Role:      profile.Role,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
	if profile.Doctor != nil {
		department := profile.Doctor.Department
		resp.Department = &department
	}
	return resp
}
