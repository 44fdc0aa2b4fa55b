package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/events"
	"github.com/spec-kit/hospital-portal/internal/repository"
)

// ProfileUpdate lists editable fields; nil leaves a field unchanged.
type ProfileUpdate struct {
	Name       *string
	Department *string
}

// ProfileService reads and edits the caller's own profile.
type ProfileService struct {
	profiles   repository.ProfileRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewProfileService creates the service.
func NewProfileService(profiles repository.ProfileRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, dispatcher: dispatcher, logger: logger}
}

// Get loads the profile of subjectID from role's partition.
func (s *ProfileService) Get(ctx context.Context, subjectID string, role domain.Role) (*domain.Profile, error) {
	if !role.Valid() {
		return nil, domain.ErrProfileNotFound
	}
	return s.profiles.GetDocument(ctx, role.Collection(), subjectID)
}

// Update applies changes to the caller's profile. Department is only accepted for doctors.
func (s *ProfileService) Update(ctx context.Context, subjectID string, role domain.Role, update ProfileUpdate) (*domain.Profile, error) {
	profile, err := s.Get(ctx, subjectID, role)
	if err != nil {
		return nil, err
	}

	var fields []string
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", domain.ErrInvalidProfile)
		}
		profile.Name = name
		fields = append(fields, "name")
	}
	if update.Department != nil {
		if role != domain.RoleDoctor {
			return nil, fmt.Errorf("%w: department applies to doctors only", domain.ErrInvalidProfile)
		}
		profile.Doctor = &domain.DoctorDetails{Department: strings.TrimSpace(*update.Department)}
		fields = append(fields, "department")
	}
	if len(fields) == 0 {
		return profile, nil
	}

	if err := s.profiles.SetDocument(ctx, role.Collection(), profile); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		event := events.NewEvent(events.EventProfileUpdated, subjectID, nil, events.ProfileUpdatedPayload{
			Collection: role.Collection(),
			Fields:     fields,
		})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		}
	}
	return profile, nil
}
