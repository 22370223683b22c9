// internal/user/repository.go
//
// Small query helpers over the `user` table.
//
// Context
// -------
// The credential store is plain MySQL:
//
//	user (id PK, full_name, email UNIQUE, password_hash, role, created_at)
//
// Login needs a row by email (hash included), identity resolution needs
// a row by id, and signup needs an existence probe plus an insert.
// These helpers accept an injected *sqlx.DB and perform simple
// parameterised queries; there is no in-process caching of rows.

package user

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository wraps the shared pool.  Construct once in cmd/web and
// inject wherever user rows are needed.
type Repository struct {
	db *sqlx.DB
}

// NewRepository binds the repository to the given pool.
func NewRepository(db *sqlx.DB) *Repository { return &Repository{db: db} }

// ByEmail fetches one row by unique email.  Returns ErrNotFound when no
// user carries the address.
func (r *Repository) ByEmail(ctx context.Context, email string) (*Record, error) {
	const q = `
        SELECT id, full_name, email, password_hash, role, created_at
        FROM   user
        WHERE  email = ?
        LIMIT  1`

	var rec Record
	if err := r.db.GetContext(ctx, &rec, q, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user by email: %w", err)
	}
	return &rec, nil
}

// ByID fetches one row by primary key.  Returns ErrNotFound when the id
// no longer exists (deleted account with a live cookie).
func (r *Repository) ByID(ctx context.Context, id int64) (*Record, error) {
	const q = `
        SELECT id, full_name, email, password_hash, role, created_at
        FROM   user
        WHERE  id = ?
        LIMIT  1`

	var rec Record
	if err := r.db.GetContext(ctx, &rec, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("user by id: %w", err)
	}
	return &rec, nil
}

// EmailExists probes for a duplicate address ahead of signup.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	const q = `SELECT 1 FROM user WHERE email = ? LIMIT 1`

	var dummy int
	err := r.db.QueryRowxContext(ctx, q, email).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("user email exists: %w", err)
	}
	return true, nil
}

// Insert stores a new user and returns the row with its assigned id.
// The caller supplies an already-hashed password.
func (r *Repository) Insert(ctx context.Context, fullName, email, passwordHash string, role Role) (*Record, error) {
	const q = `
        INSERT INTO user (full_name, email, password_hash, role)
        VALUES (?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, q, fullName, email, passwordHash, role)
	if err != nil {
		return nil, fmt.Errorf("user insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("user insert id: %w", err)
	}

	return &Record{
		ID:           id,
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}, nil
}
