// internal/inbox/repository.go
//
// Insert/select helpers for visitor-submitted contact messages and
// feedback.
//
// Context
// -------
// The marketing site collects two kinds of write-mostly records:
//
//	contact_message (id PK, name, email, message, created_at)
//	feedback        (id PK, user_id NULL, rating, comments, created_at)
//
// Feedback is optionally attributed: when the submitter carries a
// resolved identity the user id is stored, otherwise NULL.  Reads exist
// for the admin dashboard (newest first, bounded).

package inbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// ContactMessage mirrors one contact_message row.
type ContactMessage struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

// Feedback mirrors one feedback row.
type Feedback struct {
	ID        int64         `db:"id"`
	UserID    sql.NullInt64 `db:"user_id"`
	Rating    int           `db:"rating"`
	Comments  string        `db:"comments"`
	CreatedAt time.Time     `db:"created_at"`
}

// Repository wraps the shared pool.
type Repository struct {
	db *sqlx.DB
}

// NewRepository binds the repository to the given pool.
func NewRepository(db *sqlx.DB) *Repository { return &Repository{db: db} }

// AddContact stores one contact-form submission.
func (r *Repository) AddContact(ctx context.Context, name, email, message string) error {
	const q = `INSERT INTO contact_message (name, email, message) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, q, name, email, message); err != nil {
		return fmt.Errorf("contact insert: %w", err)
	}
	return nil
}

// AddFeedback stores one feedback submission.  userID == 0 records an
// anonymous entry.
func (r *Repository) AddFeedback(ctx context.Context, userID int64, rating int, comments string) error {
	const q = `INSERT INTO feedback (user_id, rating, comments) VALUES (?, ?, ?)`

	uid := sql.NullInt64{Int64: userID, Valid: userID != 0}
	if _, err := r.db.ExecContext(ctx, q, uid, rating, comments); err != nil {
		return fmt.Errorf("feedback insert: %w", err)
	}
	return nil
}

// RecentContacts returns the newest submissions, bounded by limit.
func (r *Repository) RecentContacts(ctx context.Context, limit int) ([]ContactMessage, error) {
	const q = `
        SELECT id, name, email, message, created_at
        FROM   contact_message
        ORDER  BY created_at DESC
        LIMIT  ?`

	var out []ContactMessage
	if err := r.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, fmt.Errorf("contact select: %w", err)
	}
	return out, nil
}

// RecentFeedback returns the newest feedback entries, bounded by limit.
func (r *Repository) RecentFeedback(ctx context.Context, limit int) ([]Feedback, error) {
	const q = `
        SELECT id, user_id, rating, comments, created_at
        FROM   feedback
        ORDER  BY created_at DESC
        LIMIT  ?`

	var out []Feedback
	if err := r.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, fmt.Errorf("feedback select: %w", err)
	}
	return out, nil
}
