package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/repository"
)

// RoleResolver maps a verified identity to exactly one role.
type RoleResolver struct {
	profiles repository.ProfileReader
	logger   *zap.Logger
}

// NewRoleResolver builds the resolver over the profile partitions.
func NewRoleResolver(profiles repository.ProfileReader, logger *zap.Logger) *RoleResolver {
	return &RoleResolver{profiles: profiles, logger: logger}
}

// ResolveRole returns the identity's embedded role claim without touching the repository.
// Without a claim it probes partitions in domain.ResolutionOrder and returns the first hit, or
// RoleNone when the subject has no profile. Any other read failure is reported as
// domain.ErrRepositoryUnavailable.
func (r *RoleResolver) ResolveRole(ctx context.Context, identity *domain.Identity) (domain.Role, error) {
	if identity == nil || identity.SubjectID == "" {
		return domain.RoleNone, nil
	}
	if identity.HasRoleClaim() {
		return identity.Role, nil
	}

	for _, role := range domain.ResolutionOrder {
		_, err := r.profiles.GetDocument(ctx, role.Collection(), identity.SubjectID)
		switch {
		case err == nil:
			return role, nil
		case errors.Is(err, domain.ErrProfileNotFound):
		case errors.Is(err, domain.ErrRepositoryUnavailable):
			return domain.RoleNone, err
		default:
			return domain.RoleNone, fmt.Errorf("%w: %v", domain.ErrRepositoryUnavailable, err)
		}
	}

	r.logger.Debug("no profile for subject", zap.String("subject_id", identity.SubjectID))
	return domain.RoleNone, nil
}
