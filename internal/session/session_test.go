// internal/session/session_test.go
//
// Unit-tests for cookie signing, clearing, and the accessor.
//
// Run: go test ./internal/session -v

package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prepdesk/prepdesk/internal/user"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := NewManager("userId", []byte(testKey))

	val := m.Encode(42)
	if !strings.HasPrefix(val, "42.") {
		t.Fatalf("encoded value should start with the id: %q", val)
	}

	id, ok := m.Decode(val)
	if !ok || id != 42 {
		t.Fatalf("decode round trip failed: id=%d ok=%v", id, ok)
	}
}

func TestDecodeRejectsTampering(t *testing.T) {
	m := NewManager("userId", []byte(testKey))

	val := m.Encode(42)
	_, sig, _ := strings.Cut(val, ".")

	cases := map[string]string{
		"bare id":       "42",
		"swapped id":    "7." + sig,
		"mangled sig":   "42." + sig[:len(sig)-2] + "xx",
		"empty":         "",
		"non-numeric":   "abc." + sig,
		"different key": NewManager("userId", []byte("another-key-another-key-32bytes!")).Encode(42),
	}
	for name, raw := range cases {
		if _, ok := m.Decode(raw); ok {
			t.Errorf("%s: decode accepted forged value %q", name, raw)
		}
	}
}

func TestIssueAndClearCookieFlags(t *testing.T) {
	m := NewManager("userId", []byte(testKey))

	rec := httptest.NewRecorder()
	m.Issue(rec, httptest.NewRequest(http.MethodPost, "/api/login", nil), 42)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "userId" || !c.HttpOnly || c.Path != "/" || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie flags: %+v", c)
	}
	if c.MaxAge != 0 || !c.Expires.IsZero() {
		t.Fatalf("login cookie must carry no expiry: %+v", c)
	}

	rec = httptest.NewRecorder()
	m.Clear(rec)
	c = rec.Result().Cookies()[0]
	if c.MaxAge >= 0 {
		t.Fatalf("cleared cookie must have negative MaxAge, got %d", c.MaxAge)
	}
}

func TestUserIDFromRequest(t *testing.T) {
	m := NewManager("userId", []byte(testKey))

	r := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if _, ok := m.UserID(r); ok {
		t.Fatalf("no cookie should yield no identity")
	}

	r.AddCookie(&http.Cookie{Name: "userId", Value: m.Encode(7)})
	id, ok := m.UserID(r)
	if !ok || id != 7 {
		t.Fatalf("expected id 7, got %d ok=%v", id, ok)
	}
}

func TestAccessorForwardsCookiesAndDisablesCaching(t *testing.T) {
	var gotCookie, gotCacheControl string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		gotCacheControl = r.Header.Get("Cache-Control")
		json.NewEncoder(w).Encode(map[string]any{
			"user": &user.Identity{ID: 42, Email: "dana@example.com", Role: user.RoleStudent},
		})
	}))
	defer srv.Close()

	a := NewAccessor(srv.URL)
	r := httptest.NewRequest(http.MethodGet, "/student", nil)
	r.Header.Set("Cookie", "userId=42.sig; theme=dark")

	ident := a.Current(r)
	if ident == nil || ident.ID != 42 {
		t.Fatalf("unexpected identity: %+v", ident)
	}
	if gotCookie != "userId=42.sig; theme=dark" {
		t.Fatalf("cookie header not forwarded verbatim: %q", gotCookie)
	}
	if gotCacheControl != "no-store" {
		t.Fatalf("expected Cache-Control no-store, got %q", gotCacheControl)
	}
}

func TestAccessorFailsOpenToLoggedOut(t *testing.T) {
	// 401 with {user:null}.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"user":null}`))
	}))
	a := NewAccessor(srv.URL)
	if got := a.Current(httptest.NewRequest(http.MethodGet, "/admin", nil)); got != nil {
		t.Fatalf("401 must resolve to nil identity, got %+v", got)
	}
	srv.Close()

	// Dead origin: transport failure swallowed.
	if got := a.Current(httptest.NewRequest(http.MethodGet, "/admin", nil)); got != nil {
		t.Fatalf("transport failure must resolve to nil identity, got %+v", got)
	}

	// Garbage body: decode failure swallowed.
	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<!doctype html>"))
	}))
	defer srv2.Close()
	a2 := NewAccessor(srv2.URL)
	if got := a2.Current(httptest.NewRequest(http.MethodGet, "/admin", nil)); got != nil {
		t.Fatalf("decode failure must resolve to nil identity, got %+v", got)
	}
}
