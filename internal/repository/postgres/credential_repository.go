package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/repository"
)

type credentialRepository struct {
	db *DB
}

func NewCredentialRepository(db *DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) GetByName(ctx context.Context, name string) (*domain.Credential, error) {
	query := `
		SELECT name, password_hash, active, created_at, updated_at
		FROM dgm_credentials
		WHERE name = $1
	`

	var cred domain.Credential
	if err := r.db.GetContext(ctx, &cred, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error getting credential %s: %w", name, err)
	}

	return &cred, nil
}

func (r *credentialRepository) Upsert(ctx context.Context, name, passwordHash string) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO dgm_credentials (name, password_hash, active)
			VALUES ($1, $2, TRUE)
			ON CONFLICT (name)
			DO UPDATE SET
				password_hash = EXCLUDED.password_hash,
				active = TRUE,
				updated_at = NOW()
		`
		if _, err := tx.ExecContext(ctx, query, name, passwordHash); err != nil {
			return fmt.Errorf("failed to upsert credential %s: %w", name, err)
		}
		return nil
	})
}

func (r *credentialRepository) List(ctx context.Context) ([]domain.Credential, error) {
	query := `
		SELECT name, password_hash, active, created_at, updated_at
		FROM dgm_credentials
		ORDER BY name
	`

	var creds []domain.Credential
	if err := r.db.SelectContext(ctx, &creds, query); err != nil {
		return nil, fmt.Errorf("error listing credentials: %w", err)
	}
	return creds, nil
}

func (r *credentialRepository) SetActive(ctx context.Context, name string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE dgm_credentials SET active = $2, updated_at = NOW() WHERE name = $1`,
		name, active)
	if err != nil {
		return fmt.Errorf("failed to update credential %s: %w", name, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
