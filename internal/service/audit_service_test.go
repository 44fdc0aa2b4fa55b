package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/events"
)

func TestAuditService_LogsEveryEvent(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	audit := NewAuditService(dispatcher, zap.New(core), nil)

	unsubscribe := audit.RegisterHandlers()
	ctx := context.Background()
	identity := &domain.Identity{SubjectID: "u1", Role: domain.RoleAdmin}
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventIdentitySignedIn, "u1", identity, nil)))
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventProfileUpdated, "u1", nil, nil)))
	unsubscribe()
	require.NoError(t, dispatcher.Publish(ctx, events.NewEvent(events.EventIdentitySignedOut, "u1", nil, nil)))

	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "identity_signed_in", entries[0].ContextMap()["event_type"])
	assert.Equal(t, "admin", entries[0].ContextMap()["role"])
	assert.Equal(t, "profile_updated", entries[1].ContextMap()["event_type"])
}
