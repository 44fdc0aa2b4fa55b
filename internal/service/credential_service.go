package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/auth"
	"github.com/spec-kit/hospital-portal/internal/config"
	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/events"
	"github.com/spec-kit/hospital-portal/internal/repository"
)

// Session is the result of a successful sign-in.
type Session struct {
	Token    string
	Identity domain.Identity
	// Profile is nil when the identity has no profile yet.
	Profile *domain.Profile
}

// CredentialService issues and verifies identity tokens and provisions first-time profiles.
type CredentialService struct {
	credentials repository.CredentialRepository
	profiles    repository.ProfileRepository
	revocations repository.RevocationStore
	resolver    *RoleResolver
	provider    IdentityProvider
	dispatcher  events.Dispatcher
	policy      ProvisioningPolicy
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	logger      *zap.Logger
}

// CredentialDependencies encapsulates collaborators for the credential service.
type CredentialDependencies struct {
	Credentials repository.CredentialRepository
	Profiles    repository.ProfileRepository
	Revocations repository.RevocationStore
	Resolver    *RoleResolver
	// Provider may be nil when provider sign-in is disabled.
	Provider   IdentityProvider
	Dispatcher events.Dispatcher
}

// NewCredentialService builds the service.
func NewCredentialService(cfg config.AuthConfig, deps CredentialDependencies, logger *zap.Logger) *CredentialService {
	resolver := deps.Resolver
	if resolver == nil {
		resolver = NewRoleResolver(deps.Profiles, logger)
	}
	return &CredentialService{
		credentials: deps.Credentials,
		profiles:    deps.Profiles,
		revocations: deps.Revocations,
		resolver:    resolver,
		provider:    deps.Provider,
		dispatcher:  deps.Dispatcher,
		policy:      PolicyFor(cfg.BootstrapFirstAdmin),
		tokenMgr:    auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		bcryptCost:  cfg.BcryptCost,
		logger:      logger,
	}
}

// SignUp registers a password credential and provisions its profile. Repeating a sign-up whose
// credential was stored but whose profile was not completes the provisioning.
func (s *CredentialService) SignUp(ctx context.Context, name, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	cred := &domain.Credential{
		SubjectID:    uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Provider:     domain.ProviderPassword,
	}
	if err := s.credentials.Create(ctx, cred); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return s.resumeSignUp(ctx, email, password)
		}
		return nil, err
	}

	profile, created, err := s.provision(ctx, cred)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, cred, profile, created)
}

// resumeSignUp provisions a password credential that has no profile yet. Any other existing
// account returns domain.ErrEmailTaken.
func (s *CredentialService) resumeSignUp(ctx context.Context, email, password string) (*Session, error) {
	cred, err := s.credentials.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	if cred.PasswordHash == "" || auth.ComparePassword(cred.PasswordHash, password) != nil {
		return nil, domain.ErrEmailTaken
	}

	role, err := s.resolver.ResolveRole(ctx, &domain.Identity{SubjectID: cred.SubjectID})
	if err != nil {
		return nil, err
	}
	if role.Valid() {
		return nil, domain.ErrEmailTaken
	}

	profile, created, err := s.provision(ctx, cred)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, cred, profile, created)
}

// SignInWithPassword verifies email and password. Unknown emails and wrong passwords both
// return domain.ErrInvalidCredential.
func (s *CredentialService) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	cred, err := s.credentials.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrCredentialNotFound) {
			return nil, domain.ErrInvalidCredential
		}
		return nil, err
	}
	if err := auth.ComparePassword(cred.PasswordHash, password); err != nil {
		return nil, err
	}
	return s.signIn(ctx, cred)
}

// ProviderAuthURL returns the provider consent URL for state.
func (s *CredentialService) ProviderAuthURL(state string) (string, error) {
	if s.provider == nil {
		return "", domain.ErrProviderDisabled
	}
	return s.provider.AuthCodeURL(state), nil
}

// SignInWithProvider completes an authorization-code sign-in, creating the credential on first
// use. Accounts are matched by verified email.
func (s *CredentialService) SignInWithProvider(ctx context.Context, code string) (*Session, error) {
	if s.provider == nil {
		return nil, domain.ErrProviderDisabled
	}
	user, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}
	if user.Email == "" || !user.EmailVerified {
		return nil, fmt.Errorf("%w: provider email not verified", domain.ErrInvalidCredential)
	}

	cred, err := s.credentials.GetByEmail(ctx, user.Email)
	if errors.Is(err, domain.ErrCredentialNotFound) {
		cred = &domain.Credential{
			SubjectID: uuid.NewString(),
			Email:     user.Email,
			Name:      user.Name,
			Provider:  s.provider.Name(),
		}
		err = s.credentials.Create(ctx, cred)
	}
	if err != nil {
		return nil, err
	}
	return s.signIn(ctx, cred)
}

// VerifyToken parses token and rejects it once signed out. A failing revocation lookup also
// rejects the token.
func (s *CredentialService) VerifyToken(ctx context.Context, token string) (*domain.Identity, error) {
	identity, err := s.tokenMgr.ParseToken(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revocations.IsRevoked(ctx, identity.TokenID)
	if err != nil {
		return nil, fmt.Errorf("%w: revocation check: %v", domain.ErrTokenInvalid, err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", domain.ErrTokenInvalid)
	}
	return identity, nil
}

// SignOut revokes the identity's token until it would have expired.
func (s *CredentialService) SignOut(ctx context.Context, identity *domain.Identity) error {
	if identity == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		return err
	}
	s.publish(ctx, events.NewEvent(events.EventIdentitySignedOut, identity.SubjectID, nil, nil))
	return nil
}

// Refresh re-resolves the role from the repository, ignoring any claim the old token carried,
// and reissues the token. The old token is revoked.
func (s *CredentialService) Refresh(ctx context.Context, identity *domain.Identity) (*Session, error) {
	if identity == nil {
		return nil, domain.ErrTokenInvalid
	}
	probe := *identity
	probe.Role = domain.RoleNone
	role, err := s.resolver.ResolveRole(ctx, &probe)
	if err != nil {
		return nil, err
	}

	probe.Role = role
	token, issued, err := s.tokenMgr.GenerateToken(probe)
	if err != nil {
		return nil, err
	}
	if err := s.revocations.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		s.logger.Warn("revoke refreshed token", zap.String("subject_id", identity.SubjectID), zap.Error(err))
	}

	session := &Session{Token: token, Identity: issued}
	if role.Valid() {
		profile, err := s.profiles.GetDocument(ctx, role.Collection(), identity.SubjectID)
		if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
			return nil, err
		}
		session.Profile = profile
	}
	s.publish(ctx, events.NewEvent(events.EventIdentityRefreshed, issued.SubjectID, &session.Identity, nil))
	return session, nil
}

// OnIdentityChange calls fn for every sign-in, sign-out and refresh until the returned func is
// called.
func (s *CredentialService) OnIdentityChange(fn events.EventHandler) (unsubscribe func()) {
	unsubs := make([]func(), 0, len(events.IdentityTypes))
	for _, t := range events.IdentityTypes {
		unsubs = append(unsubs, s.dispatcher.Subscribe(t, fn))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// signIn resolves the role of an existing credential, provisioning a profile when none exists.
func (s *CredentialService) signIn(ctx context.Context, cred *domain.Credential) (*Session, error) {
	role, err := s.resolver.ResolveRole(ctx, &domain.Identity{SubjectID: cred.SubjectID})
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		profile, created, err := s.provision(ctx, cred)
		if err != nil {
			return nil, err
		}
		return s.issue(ctx, cred, profile, created)
	}

	profile, err := s.profiles.GetDocument(ctx, role.Collection(), cred.SubjectID)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, cred, profile, false)
}

func (s *CredentialService) provision(ctx context.Context, cred *domain.Credential) (*domain.Profile, bool, error) {
	draft := domain.Profile{SubjectID: cred.SubjectID, Name: cred.Name, Email: cred.Email}
	profile, created, err := s.profiles.Provision(ctx, draft, repository.ProvisionDecider(s.policy))
	if err != nil {
		return nil, false, err
	}
	if created {
		s.logger.Info("profile provisioned",
			zap.String("subject_id", profile.SubjectID),
			zap.String("role", string(profile.Role)))
	}
	return profile, created, nil
}

func (s *CredentialService) issue(ctx context.Context, cred *domain.Credential, profile *domain.Profile, provisioned bool) (*Session, error) {
	identity := domain.Identity{SubjectID: cred.SubjectID, Email: cred.Email, Name: cred.Name}
	if profile != nil {
		identity.Role = profile.Role
	}
	token, issued, err := s.tokenMgr.GenerateToken(identity)
	if err != nil {
		return nil, err
	}

	session := &Session{Token: token, Identity: issued, Profile: profile}
	s.publish(ctx, events.NewEvent(events.EventIdentitySignedIn, issued.SubjectID, &session.Identity, events.SignedInPayload{
		Provider:    cred.Provider,
		Role:        issued.Role,
		Provisioned: provisioned,
	}))
	return session, nil
}

func (s *CredentialService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// TokenManager exposes the underlying token manager.
func (s *CredentialService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
