package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/hospital-portal/internal/domain"
)

// HashPassword hashes a plaintext password, clamping cost into bcrypt's accepted range.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hash. A mismatch, or a credential with no
// password (provider-only accounts), yields domain.ErrInvalidCredential.
func ComparePassword(hashed, plain string) error {
	if hashed == "" {
		return domain.ErrInvalidCredential
	}
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.ErrInvalidCredential
	}
	return err
}
