package repository

import (
	"context"
	"errors"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// CredentialRepository stores DGM login credentials.
type CredentialRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Credential, error)
	Upsert(ctx context.Context, name, passwordHash string) error
	List(ctx context.Context) ([]domain.Credential, error)
	SetActive(ctx context.Context, name string, active bool) error
}
