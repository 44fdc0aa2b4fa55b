package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/hospital-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIdentitySignedIn  EventType = "identity_signed_in"
	EventIdentitySignedOut EventType = "identity_signed_out"
	EventIdentityRefreshed EventType = "identity_refreshed"
	EventProfileUpdated    EventType = "profile_updated"
)

// IdentityTypes lists the events that change which identity is signed in.
var IdentityTypes = []EventType{EventIdentitySignedIn, EventIdentitySignedOut, EventIdentityRefreshed}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	// Identity is the identity now in effect; nil after sign-out.
	Identity  *domain.Identity `json:"-"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   interface{}      `json:"payload,omitempty"`
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(eventType EventType, subjectID string, identity *domain.Identity, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Identity:  identity,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// SignedInPayload payload.
type SignedInPayload struct {
	Provider string      `json:"provider"`
	Role     domain.Role `json:"role,omitempty"`
	// Provisioned is true when this sign-in created the profile.
	Provisioned bool `json:"provisioned"`
}

// ProfileUpdatedPayload payload.
type ProfileUpdatedPayload struct {
	Collection domain.Collection `json:"collection"`
	Fields     []string          `json:"fields"`
}
