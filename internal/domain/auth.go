package domain

import "time"

// Identity is a verified principal derived from an identity token.
type Identity struct {
	SubjectID string
	Email     string
	Name      string
	// Role is the claim embedded in the token, RoleNone when the token carries none.
	Role      Role
	TokenID   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// HasRoleClaim reports whether the token carried a usable role claim.
func (i Identity) HasRoleClaim() bool {
	return i.Role.Valid()
}

// Credential is the sign-in record owned by the credential store.
type Credential struct {
	SubjectID    string
	Email        string
	Name         string
	PasswordHash string
	Provider     string
	CreatedAt    time.Time
}

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)
