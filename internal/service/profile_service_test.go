package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/events"
)

func strPtr(s string) *string { return &s }

func TestProfileService_UpdateDoctorDepartment(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.put(domain.RoleDoctor, "d1")
	dispatcher := events.NewInMemoryDispatcher()
	var published []events.Event
	dispatcher.Subscribe(events.EventProfileUpdated, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})
	svc := NewProfileService(profiles, dispatcher, zap.NewNop())

	updated, err := svc.Update(context.Background(), "d1", domain.RoleDoctor, ProfileUpdate{
		Name:       strPtr("  Dr. Who "),
		Department: strPtr("Cardiology"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Who", updated.Name)
	assert.Equal(t, "Cardiology", updated.Department())

	stored, err := svc.Get(context.Background(), "d1", domain.RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", stored.Department())

	require.Len(t, published, 1)
	assert.Equal(t, events.ProfileUpdatedPayload{
		Collection: domain.CollectionDoctors,
		Fields:     []string{"name", "department"},
	}, published[0].Payload)
}

func TestProfileService_RejectsInvalidUpdates(t *testing.T) {
	profiles := newFakeProfiles()
	profiles.put(domain.RoleAdmin, "a1")
	svc := NewProfileService(profiles, nil, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Update(ctx, "a1", domain.RoleAdmin, ProfileUpdate{Department: strPtr("ER")})
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)

	_, err = svc.Update(ctx, "a1", domain.RoleAdmin, ProfileUpdate{Name: strPtr("   ")})
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)
}

func TestProfileService_MissingProfile(t *testing.T) {
	svc := NewProfileService(newFakeProfiles(), nil, zap.NewNop())

	_, err := svc.Get(context.Background(), "ghost", domain.RoleReceptionist)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	_, err = svc.Get(context.Background(), "ghost", domain.RoleNone)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
