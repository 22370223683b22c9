// internal/gate/gate_test.go
//
// Redirect-matrix tests for the role gate.
//
// Run: go test ./internal/gate -v

package gate

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prepdesk/prepdesk/internal/auth"
	"github.com/prepdesk/prepdesk/internal/user"
)

// stubSource returns a fixed identity.
type stubSource struct {
	ident *user.Identity
}

func (s stubSource) Current(*http.Request) *user.Identity { return s.ident }

func serve(t *testing.T, ident *user.Identity, requires user.Role, path string) *httptest.ResponseRecorder {
	t.Helper()

	var sawIdentity *user.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawIdentity, _ = auth.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	New(stubSource{ident}).Require(requires)(next).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	if rec.Code == http.StatusOK && (sawIdentity == nil || sawIdentity.ID != ident.ID) {
		t.Fatalf("authorized request did not carry the identity downstream")
	}
	return rec
}

func TestGateRedirectMatrix(t *testing.T) {
	admin := &user.Identity{ID: 1, Email: "admin@example.com", Role: user.RoleAdmin}
	student := &user.Identity{ID: 2, Email: "s@example.com", Role: user.RoleStudent}

	cases := []struct {
		name     string
		ident    *user.Identity
		requires user.Role
		path     string
		wantCode int
		wantLoc  string
	}{
		{"no identity, student section", nil, user.RoleStudent, "/student", http.StatusFound, "/login"},
		{"no identity, admin section", nil, user.RoleAdmin, "/admin", http.StatusFound, "/login"},
		{"admin in student section", admin, user.RoleStudent, "/student", http.StatusFound, "/admin"},
		{"student in admin section", student, user.RoleAdmin, "/admin", http.StatusFound, "/student"},
		{"admin in admin section", admin, user.RoleAdmin, "/admin", http.StatusOK, ""},
		{"student in student section", student, user.RoleStudent, "/student", http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var rec *httptest.ResponseRecorder
			if tc.ident == nil {
				next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					t.Fatalf("unauthenticated request reached the section")
				})
				rec = httptest.NewRecorder()
				New(stubSource{nil}).Require(tc.requires)(next).
					ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			} else {
				rec = serve(t, tc.ident, tc.requires, tc.path)
			}

			if rec.Code != tc.wantCode {
				t.Fatalf("status: want %d, got %d", tc.wantCode, rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tc.wantLoc {
				t.Fatalf("location: want %q, got %q", tc.wantLoc, got)
			}
		})
	}
}
