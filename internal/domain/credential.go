package domain

import "time"

// Credential is a DGM login stored in the database. Only the bcrypt hash of
// the password is ever persisted.
type Credential struct {
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
