package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hospital-portal/internal/domain"
)

// provisionLockKey serialises first-sign-in provisioning across replicas.
const provisionLockKey int64 = 0x70726f76

// ProvisionDecider picks the role for a new profile given how many profiles already exist.
type ProvisionDecider func(existing int) domain.Role

// ProfileReader is the read side used by role resolution and the session observer.
type ProfileReader interface {
	GetDocument(ctx context.Context, collection domain.Collection, subjectID string) (*domain.Profile, error)
}

// ProfileRepository stores profiles in four role partitions keyed by subject id.
type ProfileRepository interface {
	ProfileReader
	// SetDocument upserts profile into collection. The profile role must own the collection.
	SetDocument(ctx context.Context, collection domain.Collection, profile *domain.Profile) error
	// Provision returns the existing profile for draft.SubjectID from any partition, or creates
	// one in the partition chosen by decide. created reports which happened.
	Provision(ctx context.Context, draft domain.Profile, decide ProvisionDecider) (profile *domain.Profile, created bool, err error)
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository returns a Postgres-backed implementation.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) GetDocument(ctx context.Context, collection domain.Collection, subjectID string) (*domain.Profile, error) {
	return getProfile(ctx, r.pool, collection, subjectID)
}

func (r *profileRepository) SetDocument(ctx context.Context, collection domain.Collection, profile *domain.Profile) error {
	if profile == nil || profile.Role.Collection() != collection {
		return fmt.Errorf("%w: role does not own collection %q", domain.ErrInvalidProfile, collection)
	}
	return upsertProfile(ctx, r.pool, collection, profile)
}

func (r *profileRepository) Provision(ctx context.Context, draft domain.Profile, decide ProvisionDecider) (*domain.Profile, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, provisionLockKey); err != nil {
		return nil, false, fmt.Errorf("acquire provisioning lock: %w", err)
	}

	for _, role := range domain.ResolutionOrder {
		existing, err := getProfile(ctx, tx, role.Collection(), draft.SubjectID)
		if err == nil {
			return existing, false, tx.Commit(ctx)
		}
		if !errors.Is(err, domain.ErrProfileNotFound) {
			return nil, false, err
		}
	}

	const countQuery = `
        SELECT (SELECT COUNT(*) FROM admins)
             + (SELECT COUNT(*) FROM doctors)
             + (SELECT COUNT(*) FROM receptionists)
             + (SELECT COUNT(*) FROM pharmacists)`
	var existing int64
	if err := tx.QueryRow(ctx, countQuery).Scan(&existing); err != nil {
		return nil, false, fmt.Errorf("count profiles: %w", err)
	}

	profile := draft
	profile.Role = decide(int(existing))
	if !profile.Role.Valid() {
		return nil, false, fmt.Errorf("%w: provisioning chose no role", domain.ErrInvalidProfile)
	}
	if profile.Role == domain.RoleDoctor && profile.Doctor == nil {
		profile.Doctor = &domain.DoctorDetails{}
	}
	if profile.Role != domain.RoleDoctor {
		profile.Doctor = nil
	}

	if err := upsertProfile(ctx, tx, profile.Role.Collection(), &profile); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return &profile, true, nil
}

type profileRow struct {
	SubjectID  string
	Name       string
	Email      string
	Role       domain.Role
	Department string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (row profileRow) toDomain(collection domain.Collection) *domain.Profile {
	profile := &domain.Profile{
		SubjectID: row.SubjectID,
		Name:      row.Name,
		Email:     row.Email,
		Role:      collection.Role(),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if collection == domain.CollectionDoctors {
		profile.Doctor = &domain.DoctorDetails{Department: row.Department}
	}
	return profile
}

func tableFor(collection domain.Collection) (string, error) {
	switch collection {
	case domain.CollectionAdmins, domain.CollectionDoctors, domain.CollectionReceptionists, domain.CollectionPharmacists:
		return string(collection), nil
	}
	return "", fmt.Errorf("unknown profile collection %q", collection)
}

func getProfile(ctx context.Context, q queryRower, collection domain.Collection, subjectID string) (*domain.Profile, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}

	department := `''::text`
	if collection == domain.CollectionDoctors {
		department = `department`
	}
	query := fmt.Sprintf(`
        SELECT subject_id, name, email, role, %s, created_at, updated_at
        FROM %s WHERE subject_id=$1`, department, table)

	var profile profileRow
	if err := q.QueryRow(ctx, query, subjectID).Scan(
		&profile.SubjectID,
		&profile.Name,
		&profile.Email,
		&profile.Role,
		&profile.Department,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profile.toDomain(collection), nil
}

func upsertProfile(ctx context.Context, q queryRower, collection domain.Collection, profile *domain.Profile) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}

	if collection == domain.CollectionDoctors {
		query := fmt.Sprintf(`
        INSERT INTO %s (subject_id, name, email, role, department)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (subject_id) DO UPDATE
        SET name=EXCLUDED.name, email=EXCLUDED.email, department=EXCLUDED.department, updated_at=NOW()
        RETURNING created_at, updated_at`, table)
		return q.QueryRow(ctx, query,
			profile.SubjectID,
			profile.Name,
			profile.Email,
			profile.Role,
			profile.Department(),
		).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (subject_id, name, email, role)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (subject_id) DO UPDATE
        SET name=EXCLUDED.name, email=EXCLUDED.email, updated_at=NOW()
        RETURNING created_at, updated_at`, table)
	return q.QueryRow(ctx, query,
		profile.SubjectID,
		profile.Name,
		profile.Email,
		profile.Role,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}
