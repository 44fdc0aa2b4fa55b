package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hospital-portal/internal/domain"
)

const uniqueViolation = "23505"

// CredentialRepository defines persistence for sign-in credentials.
type CredentialRepository interface {
	Create(ctx context.Context, cred *domain.Credential) error
	GetByEmail(ctx context.Context, email string) (*domain.Credential, error)
}

type credentialRepository struct {
	pool *pgxpool.Pool
}

// NewCredentialRepository returns a Postgres-backed implementation.
func NewCredentialRepository(pool *pgxpool.Pool) CredentialRepository {
	return &credentialRepository{pool: pool}
}

func (r *credentialRepository) Create(ctx context.Context, cred *domain.Credential) error {
	const query = `
        INSERT INTO credentials (subject_id, email, display_name, password_hash, provider)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		cred.SubjectID,
		cred.Email,
		cred.Name,
		cred.PasswordHash,
		cred.Provider,
	).Scan(&cred.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *credentialRepository) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	const query = `
        SELECT subject_id, email, display_name, password_hash, provider, created_at
        FROM credentials WHERE email=$1`

	var cred domain.Credential
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&cred.SubjectID,
		&cred.Email,
		&cred.Name,
		&cred.PasswordHash,
		&cred.Provider,
		&cred.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, err
	}
	return &cred, nil
}
