package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/config"
	"github.com/spec-kit/hospital-portal/internal/domain"
)

// breakerProfileRepository guards a ProfileRepository with a circuit breaker and folds every
// infrastructure failure into domain.ErrRepositoryUnavailable.
type breakerProfileRepository struct {
	inner ProfileRepository
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerProfileRepository wraps inner. Missing profiles and cancelled contexts do not count
// as failures.
func NewBreakerProfileRepository(inner ProfileRepository, cfg config.BreakerConfig, logger *zap.Logger) ProfileRepository {
	maxFailures := uint32(3)
	if cfg.MaxFailures > 0 {
		maxFailures = uint32(cfg.MaxFailures)
	}
	openFor := 10 * time.Second
	if cfg.OpenSeconds > 0 {
		openFor = time.Duration(cfg.OpenSeconds) * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "profile-repository",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, domain.ErrProfileNotFound) ||
				errors.Is(err, domain.ErrInvalidProfile) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &breakerProfileRepository{inner: inner, cb: cb}
}

func (r *breakerProfileRepository) GetDocument(ctx context.Context, collection domain.Collection, subjectID string) (*domain.Profile, error) {
	res, err := r.cb.Execute(func() (interface{}, error) {
		return r.inner.GetDocument(ctx, collection, subjectID)
	})
	if err != nil {
		return nil, unavailable(err)
	}
	return res.(*domain.Profile), nil
}

func (r *breakerProfileRepository) SetDocument(ctx context.Context, collection domain.Collection, profile *domain.Profile) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.inner.SetDocument(ctx, collection, profile)
	})
	return unavailable(err)
}

func (r *breakerProfileRepository) Provision(ctx context.Context, draft domain.Profile, decide ProvisionDecider) (*domain.Profile, bool, error) {
	var created bool
	res, err := r.cb.Execute(func() (interface{}, error) {
		profile, ok, err := r.inner.Provision(ctx, draft, decide)
		created = ok
		return profile, err
	})
	if err != nil {
		return nil, false, unavailable(err)
	}
	return res.(*domain.Profile), created, nil
}

func unavailable(err error) error {
	if err == nil ||
		errors.Is(err, domain.ErrProfileNotFound) ||
		errors.Is(err, domain.ErrInvalidProfile) ||
		errors.Is(err, domain.ErrRepositoryUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrRepositoryUnavailable, err)
}
