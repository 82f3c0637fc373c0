package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/andresuchdata/dgm-dashboard/backend-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// Identity is the authenticated DGM. Its Name is matched exactly against the
// owner column of the source sheet.
type Identity struct {
	Name string `json:"name"`
}

// Authenticator verifies a DGM's name and secret.
type Authenticator interface {
	Authenticate(ctx context.Context, name, secret string) (Identity, error)
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a password with its bcrypt hash.
func CheckPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// StaticAuthenticator checks against a fixed name -> bcrypt hash table.
type StaticAuthenticator struct {
	users map[string]string
}

func NewStaticAuthenticator(users map[string]string) *StaticAuthenticator {
	copied := make(map[string]string, len(users))
	for name, hash := range users {
		copied[name] = hash
	}
	return &StaticAuthenticator{users: copied}
}

func (a *StaticAuthenticator) Authenticate(ctx context.Context, name, secret string) (Identity, error) {
	hash, ok := a.users[name]
	if !ok {
		return Identity{}, ErrInvalidCredentials
	}
	if err := CheckPassword(secret, hash); err != nil {
		return Identity{}, err
	}
	return Identity{Name: name}, nil
}

// PostgresAuthenticator checks against the dgm_credentials table.
type PostgresAuthenticator struct {
	repo repository.CredentialRepository
}

func NewPostgresAuthenticator(repo repository.CredentialRepository) *PostgresAuthenticator {
	return &PostgresAuthenticator{repo: repo}
}

func (a *PostgresAuthenticator) Authenticate(ctx context.Context, name, secret string) (Identity, error) {
	cred, err := a.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, err
	}
	if !cred.Active {
		return Identity{}, ErrInvalidCredentials
	}
	if err := CheckPassword(secret, cred.PasswordHash); err != nil {
		return Identity{}, err
	}
	return Identity{Name: cred.Name}, nil
}

var (
	_ Authenticator = (*StaticAuthenticator)(nil)
	_ Authenticator = (*PostgresAuthenticator)(nil)
)
