package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/observability"
)

const (
	principalKey = "auth_principal"

	// SessionCookieName carries the identity token for server-side authorization.
	SessionCookieName = "firebase-auth-token"
)

// Principal represents the authenticated caller on an allowed request.
type Principal struct {
	Identity domain.Identity
	Role     domain.Role
}

// Subject returns the authorization view of the principal.
func (p *Principal) Subject() Subject {
	return Subject{ID: p.Identity.SubjectID, Role: p.Role}
}

// TokenVerifier verifies identity tokens against the credential store.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*domain.Identity, error)
}

// RoleResolver maps a verified identity to its role, RoleNone when unprovisioned.
type RoleResolver interface {
	ResolveRole(ctx context.Context, identity *domain.Identity) (domain.Role, error)
}

// AuthMiddleware gates every page request through Authorize. Failures never surface as error
// pages: a bad token or an unreachable repository degrades to an anonymous caller.
type AuthMiddleware struct {
	tokens  TokenVerifier
	roles   RoleResolver
	cookie  SessionCookie
	logger  *zap.Logger
	metrics *observability.Metrics
	skip    func(path string) bool
}

// NewAuthMiddleware constructs middleware. skip exempts paths such as health probes and the
// JSON auth API from the gate; it may be nil.
func NewAuthMiddleware(tokens TokenVerifier, roles RoleResolver, cookie SessionCookie, logger *zap.Logger, metrics *observability.Metrics, skip func(path string) bool) *AuthMiddleware {
	if skip == nil {
		skip = func(string) bool { return false }
	}
	return &AuthMiddleware{tokens: tokens, roles: roles, cookie: cookie, logger: logger, metrics: metrics, skip: skip}
}

// Handle authorizes the request and either continues or redirects.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	path := c.Path()
	if m.skip(path) {
		return c.Next()
	}

	principal := m.resolve(c)
	subject := Subject{}
	if principal != nil {
		subject = principal.Subject()
	}

	decision := Authorize(subject, path)
	m.metrics.RecordDecision(string(decision.Kind), string(subject.Role))
	c.Locals(observability.DecisionLocal, string(decision.Kind))

	if decision.Kind != domain.DecisionAllow {
		m.logger.Debug("route redirect",
			zap.String("path", path),
			zap.String("decision", string(decision.Kind)),
			zap.String("location", decision.Location))
		return c.Redirect(decision.Location, fiber.StatusFound)
	}

	if principal != nil {
		c.Locals(principalKey, principal)
	}
	return c.Next()
}

// resolve returns nil for anonymous callers, including valid identities without a profile.
func (m *AuthMiddleware) resolve(c *fiber.Ctx) *Principal {
	token := c.Cookies(SessionCookieName)
	if token == "" {
		return nil
	}

	ctx := c.UserContext()
	identity, err := m.tokens.VerifyToken(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrTokenInvalid) {
			m.logger.Warn("token verification failed", zap.Error(err))
		}
		m.cookie.Clear(c)
		return nil
	}

	role, err := m.roles.ResolveRole(ctx, identity)
	if err != nil {
		m.logger.Warn("role resolution failed; treating caller as anonymous",
			zap.String("subject_id", identity.SubjectID),
			zap.Error(err))
		return nil
	}
	if !role.Valid() {
		return nil
	}
	return &Principal{Identity: *identity, Role: role}
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
