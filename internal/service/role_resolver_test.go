package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/domain"
)

func TestResolveRole_ClaimSkipsRepository(t *testing.T) {
	profiles := newFakeProfiles()
	resolver := NewRoleResolver(profiles, zap.NewNop())

	for _, role := range domain.ResolutionOrder {
		got, err := resolver.ResolveRole(context.Background(), &domain.Identity{SubjectID: "u1", Role: role})
		require.NoError(t, err)
		assert.Equal(t, role, got)
	}
	assert.Zero(t, profiles.readCount())
}

func TestResolveRole_ProbesInPriorityOrder(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.put(domain.RoleDoctor, "d1")
	resolver := NewRoleResolver(profiles, zap.NewNop())

	role, err := resolver.ResolveRole(context.Background(), &domain.Identity{SubjectID: "d1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleDoctor, role)
	assert.Equal(t, []domain.Collection{domain.CollectionAdmins, domain.CollectionDoctors}, profiles.reads)
}

func TestResolveRole_NoProfile(t *testing.T) {
	profiles := newFakeProfiles()
	resolver := NewRoleResolver(profiles, zap.NewNop())

	role, err := resolver.ResolveRole(context.Background(), &domain.Identity{SubjectID: "ghost"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleNone, role)
	assert.Equal(t, []domain.Collection{
		domain.CollectionAdmins,
		domain.CollectionDoctors,
		domain.CollectionReceptionists,
		domain.CollectionPharmacists,
	}, profiles.reads)
}

func TestResolveRole_MultiplePartitionsResolveByPriority(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.put(domain.RolePharmacist, "u1")
	profiles.put(domain.RoleReceptionist, "u1")
	resolver := NewRoleResolver(profiles, zap.NewNop())

	role, err := resolver.ResolveRole(context.Background(), &domain.Identity{SubjectID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleReceptionist, role)
}

func TestResolveRole_RepositoryFailure(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.put(domain.RolePharmacist, "u1")
	profiles.fail[domain.CollectionDoctors] = errors.New("connection reset")
	resolver := NewRoleResolver(profiles, zap.NewNop())

	role, err := resolver.ResolveRole(context.Background(), &domain.Identity{SubjectID: "u1"})
	assert.ErrorIs(t, err, domain.ErrRepositoryUnavailable)
	assert.Equal(t, domain.RoleNone, role)
}

func TestResolveRole_NilIdentity(t *testing.T) {
	resolver := NewRoleResolver(newFakeProfiles(), zap.NewNop())

	role, err := resolver.ResolveRole(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleNone, role)
}

func TestProvisioningPolicies(t *testing.T) {
	assert.Equal(t, domain.RoleAdmin, FirstUserAdminPolicy(0))
	assert.Equal(t, domain.RoleDoctor, FirstUserAdminPolicy(1))
	assert.Equal(t, domain.RoleDoctor, DoctorOnlyPolicy(0))
	assert.Equal(t, domain.RoleAdmin, PolicyFor(true)(0))
	assert.Equal(t, domain.RoleDoctor, PolicyFor(false)(0))
}
