// internal/user/model.go
//
// Credential-store records and the identity projection.
//
// Context
// -------
// The `user` table is the single source of identity: id, full name,
// unique email, bcrypt password hash, and role.  Handlers never see the
// hash; everything above the repository works with the Identity
// projection, which is recomputed per request and never persisted.

package user

import (
	"errors"
	"time"
)

// ErrNotFound is returned by lookups when no row matches.  Callers
// translate it to "no identity" or "invalid credentials" as appropriate.
var ErrNotFound = errors.New("user: not found")

//
// Role enum
//

// Role tags a user as staff or learner.  Stored as a string enum in
// MySQL; branching on it stays a plain switch.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleStudent }

//
// Records
//

// Record mirrors one `user` row.  PasswordHash stays inside the
// repository and the auth service; it must never be serialized.
type Record struct {
	ID           int64     `db:"id"`
	FullName     string    `db:"full_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// Identity is the minimal projection handed to handlers, templates, and
// the role gate: {id, email, role}, nothing more.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Identity derives the projection from a full record.
func (rec *Record) Identity() *Identity {
	return &Identity{ID: rec.ID, Email: rec.Email, Role: rec.Role}
}
