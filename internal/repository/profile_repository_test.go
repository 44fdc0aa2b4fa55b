package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/hospital-portal/internal/domain"
	"github.com/spec-kit/hospital-portal/internal/persistence"
)

// setupTestPool connects to POSTGRES_TEST_DSN and applies migrations, skipping when unset.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Skipf("database not available: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("database not available: %v", err)
	}
	require.NoError(t, persistence.RunMigrations(ctx, pool, zap.NewNop()))
	t.Cleanup(pool.Close)
	return pool
}

func TestProfileRepository_SetAndGet(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewProfileRepository(pool)
	ctx := context.Background()
	id := "test-" + uuid.NewString()
	t.Cleanup(func() { _, _ = pool.Exec(ctx, `DELETE FROM doctors WHERE subject_id=$1`, id) })

	profile := &domain.Profile{
		SubjectID: id,
		Name:      "Dr. Test",
		Email:     "test@example.com",
		Role:      domain.RoleDoctor,
		Doctor:    &domain.DoctorDetails{Department: "cardiology"},
	}
	require.NoError(t, repo.SetDocument(ctx, domain.CollectionDoctors, profile))
	assert.False(t, profile.CreatedAt.IsZero())

	got, err := repo.GetDocument(ctx, domain.CollectionDoctors, id)
	require.NoError(t, err)
	assert.Equal(t, "cardiology", got.Department())
	assert.Equal(t, domain.RoleDoctor, got.Role)

	_, err = repo.GetDocument(ctx, domain.CollectionAdmins, id)
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestProfileRepository_SetDocumentRejectsForeignPartition(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewProfileRepository(pool)

	err := repo.SetDocument(context.Background(), domain.CollectionAdmins, &domain.Profile{
		SubjectID: "test-x",
		Role:      domain.RoleDoctor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)
}

func TestProfileRepository_ProvisionReturnsExisting(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewProfileRepository(pool)
	ctx := context.Background()
	id := "test-" + uuid.NewString()
	t.Cleanup(func() { _, _ = pool.Exec(ctx, `DELETE FROM pharmacists WHERE subject_id=$1`, id) })

	require.NoError(t, repo.SetDocument(ctx, domain.CollectionPharmacists, &domain.Profile{
		SubjectID: id,
		Name:      "Pharm",
		Role:      domain.RolePharmacist,
	}))

	profile, created, err := repo.Provision(ctx, domain.Profile{SubjectID: id}, func(int) domain.Role {
		t.Fatal("decider must not run for an existing subject")
		return domain.RoleNone
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, domain.RolePharmacist, profile.Role)
}
