package service

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/repository"
)

// fakeProfiles is an in-memory ProfileRepository that records every read.
type fakeProfiles struct {
	mu    sync.Mutex
	docs  map[domain.Collection]map[string]*domain.Profile
	fail  map[domain.Collection]error
	reads []domain.Collection
	// provisionErr fails every Provision call while set.
	provisionErr error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		docs: map[domain.Collection]map[string]*domain.Profile{},
		fail: map[domain.Collection]error{},
	}
}

func (f *fakeProfiles) put(role domain.Role, subjectID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := role.Collection()
	if f.docs[c] == nil {
		f.docs[c] = map[string]*domain.Profile{}
	}
	profile := &domain.Profile{SubjectID: subjectID, Name: "name-" + subjectID, Role: role}
	if role == domain.RoleDoctor {
		profile.Doctor = &domain.DoctorDetails{}
	}
	f.docs[c][subjectID] = profile
}

func (f *fakeProfiles) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reads)
}

func (f *fakeProfiles) GetDocument(_ context.Context, collection domain.Collection, subjectID string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads = append(f.reads, collection)
	if err := f.fail[collection]; err != nil {
		return nil, err
	}
	profile, ok := f.docs[collection][subjectID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *profile
	return &clone, nil
}

func (f *fakeProfiles) SetDocument(_ context.Context, collection domain.Collection, profile *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs[collection] == nil {
		f.docs[collection] = map[string]*domain.Profile{}
	}
	clone := *profile
	clone.UpdatedAt = time.Now()
	f.docs[collection][profile.SubjectID] = &clone
	return nil
}

func (f *fakeProfiles) Provision(_ context.Context, draft domain.Profile, decide repository.ProvisionDecider) (*domain.Profile, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.provisionErr != nil {
		return nil, false, f.provisionErr
	}
	total := 0
	for _, role := range domain.ResolutionOrder {
		if existing, ok := f.docs[role.Collection()][draft.SubjectID]; ok {
			return existing, false, nil
		}
		total += len(f.docs[role.Collection()])
	}
	profile := draft
	profile.Role = decide(total)
	c := profile.Role.Collection()
	if f.docs[c] == nil {
		f.docs[c] = map[string]*domain.Profile{}
	}
	f.docs[c][profile.SubjectID] = &profile
	return &profile, true, nil
}

type fakeCredentials struct {
	mu      sync.Mutex
	byEmail map[string]*domain.Credential
}

func newFakeCredentials() *fakeCredentials {
	return &fakeCredentials{byEmail: map[string]*domain.Credential{}}
}

func (f *fakeCredentials) Create(_ context.Context, cred *domain.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[cred.Email]; ok {
		return domain.ErrEmailTaken
	}
	cred.CreatedAt = time.Now()
	clone := *cred
	f.byEmail[cred.Email] = &clone
	return nil
}

func (f *fakeCredentials) GetByEmail(_ context.Context, email string) (*domain.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cred, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrCredentialNotFound
	}
	clone := *cred
	return &clone, nil
}

type fakeRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{revoked: map[string]time.Time{}}
}

func (f *fakeRevocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.revoked[tokenID] = until
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[tokenID]
	return ok, nil
}

type fakeProvider struct {
	user *ProviderUser
	err  error
}

func (p fakeProvider) Name() string { return domain.ProviderGoogle }

func (p fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.test/auth?state=" + state
}

func (p fakeProvider) Exchange(context.Context, string) (*ProviderUser, error) {
	return p.user, p.err
}
