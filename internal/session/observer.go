package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/repository"
)

// Status is the lifecycle phase of an observed session.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusErrored Status = "errored"
)

// State is a snapshot of the observed session. Profile is nil when Ready with no identity.
// Err is domain.ErrProfileNotFound or domain.ErrRepositoryUnavailable when Errored.
type State struct {
	Status   Status
	Identity *domain.Identity
	Profile  *domain.Profile
	Err      error
}

// Loading reports whether a profile fetch is outstanding.
func (s State) Loading() bool { return s.Status == StatusLoading }

// IdentitySource delivers identity changes in order. A nil identity means signed out.
type IdentitySource interface {
	Subscribe(fn func(identity *domain.Identity)) (unsubscribe func())
}

// Observer tracks {profile, loading, error} for the current identity. Each identity change
// starts a new fetch and cancels the previous one; only the latest identity's result is kept.
type Observer struct {
	profiles   repository.ProfileReader
	collection domain.Collection
	logger     *zap.Logger

	mu          sync.Mutex
	state       State
	generation  uint64
	cancel      context.CancelFunc
	closed      bool
	unsubscribe func()

	updates chan State
	done    chan struct{}
}

// Observe subscribes to source and loads profiles from collection for every identity it emits.
func Observe(source IdentitySource, profiles repository.ProfileReader, collection domain.Collection, logger *zap.Logger) *Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Observer{
		profiles:   profiles,
		collection: collection,
		logger:     logger,
		state:      State{Status: StatusLoading},
		updates:    make(chan State, 1),
		done:       make(chan struct{}),
	}
	unsubscribe := source.Subscribe(o.onIdentity)

	o.mu.Lock()
	closed := o.closed
	o.unsubscribe = unsubscribe
	o.mu.Unlock()
	if closed {
		unsubscribe()
	}
	return o
}

// State returns the current snapshot.
func (o *Observer) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Updates delivers state changes. Only the latest undelivered state is buffered.
func (o *Observer) Updates() <-chan State {
	return o.updates
}

// Done is closed once Close has been called.
func (o *Observer) Done() <-chan struct{} {
	return o.done
}

// Close releases the identity subscription and cancels any in-flight fetch. It is idempotent.
func (o *Observer) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.generation++
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	unsubscribe := o.unsubscribe
	close(o.done)
	o.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (o *Observer) onIdentity(identity *domain.Identity) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}

	o.generation++
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}

	if identity == nil {
		o.setLocked(State{Status: StatusReady})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.setLocked(State{Status: StatusLoading, Identity: identity})

	go o.fetch(ctx, o.generation, identity)
}

func (o *Observer) fetch(ctx context.Context, generation uint64, identity *domain.Identity) {
	profile, err := o.profiles.GetDocument(ctx, o.collection, identity.SubjectID)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || generation != o.generation {
		o.logger.Debug("discarding superseded profile fetch", zap.String("subject_id", identity.SubjectID))
		return
	}
	o.cancel = nil

	if err != nil {
		if !errors.Is(err, domain.ErrProfileNotFound) && !errors.Is(err, domain.ErrRepositoryUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrRepositoryUnavailable, err)
		}
		o.logger.Warn("session profile fetch failed",
			zap.String("subject_id", identity.SubjectID),
			zap.String("collection", string(o.collection)),
			zap.Error(err))
		o.setLocked(State{Status: StatusErrored, Identity: identity, Err: err})
		return
	}
	o.setLocked(State{Status: StatusReady, Identity: identity, Profile: profile})
}

// setLocked must be called with o.mu held; all channel writers hold it, so the send never blocks.
func (o *Observer) setLocked(state State) {
	o.state = state
	select {
	case <-o.updates:
	default:
	}
	o.updates <- state
}
