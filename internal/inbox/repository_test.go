// internal/inbox/repository_test.go
//
// Unit-tests for the inbox repository using sqlmock.
//
// Run: go test ./internal/inbox -v

package inbox

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestAddContact(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO contact_message (name, email, message) VALUES (?, ?, ?)`,
	)).
		WithArgs("Visitor", "v@example.com", "Hello there").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.AddContact(context.Background(), "Visitor", "v@example.com", "Hello there"); err != nil {
		t.Fatalf("AddContact error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestAddFeedbackAnonymousNullsUserID(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO feedback (user_id, rating, comments) VALUES (?, ?, ?)`,
	)).
		WithArgs(sql.NullInt64{}, 4, "Solid practice sets").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.AddFeedback(context.Background(), 0, 4, "Solid practice sets"); err != nil {
		t.Fatalf("AddFeedback error: %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO feedback (user_id, rating, comments) VALUES (?, ?, ?)`,
	)).
		WithArgs(sql.NullInt64{Int64: 42, Valid: true}, 5, "").
		WillReturnResult(sqlmock.NewResult(2, 1))

	if err := repo.AddFeedback(context.Background(), 42, 5, ""); err != nil {
		t.Fatalf("AddFeedback attributed error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRecentContacts(t *testing.T) {
	repo, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "message", "created_at"}).
		AddRow(2, "B", "b@example.com", "later", time.Now()).
		AddRow(1, "A", "a@example.com", "earlier", time.Now().Add(-time.Hour))

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, name, email, message, created_at FROM contact_message ORDER BY created_at DESC LIMIT ?`,
	)).
		WithArgs(50).
		WillReturnRows(rows)

	got, err := repo.RecentContacts(context.Background(), 50)
	if err != nil {
		t.Fatalf("RecentContacts error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 {
		t.Fatalf("unexpected result: %+v", got)
	}
}
