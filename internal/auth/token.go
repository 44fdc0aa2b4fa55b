package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/hospital-portal/internal/domain"
)

// TokenManager issues and verifies identity tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims describes the JWT payload. Role is optional; when present it short-circuits
// role resolution.
type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for identity. A valid identity.Role is embedded as the role claim.
func (tm *TokenManager) GenerateToken(identity domain.Identity) (string, domain.Identity, error) {
	if identity.SubjectID == "" {
		return "", domain.Identity{}, errors.New("subject id required")
	}

	issuedAt := tm.now()
	identity.IssuedAt = issuedAt
	identity.ExpiresAt = issuedAt.Add(tm.ttl)
	identity.TokenID = uuid.NewString()

	claims := &Claims{
		Email: identity.Email,
		Name:  identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        identity.TokenID,
			Subject:   identity.SubjectID,
			ExpiresAt: jwt.NewNumericDate(identity.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	if identity.Role.Valid() {
		claims.Role = string(identity.Role)
	} else {
		identity.Role = domain.RoleNone
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", domain.Identity{}, err
	}
	return signed, identity, nil
}

// ParseToken verifies tokenStr and returns the identity it carries. Every failure wraps
// domain.ErrTokenInvalid. An unknown role claim is dropped rather than trusted.
func (tm *TokenManager) ParseToken(tokenStr string) (*domain.Identity, error) {
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrTokenInvalid)
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: invalid token claims", domain.ErrTokenInvalid)
	}

	identity := &domain.Identity{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Name:      claims.Name,
		Role:      domain.ParseRole(claims.Role),
		TokenID:   claims.ID,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	return identity, nil
}
