// internal/session/session.go
//
// Session-cookie issuance and verification.
//
// Context
// -------
// The browser re-identifies a user through one cookie, externally named
// `userId` for compatibility with the original site.  The value is NOT
// the bare primary key: it is `<id>.<base64url HMAC-SHA256(id)>`, keyed
// from configuration, so a visitor cannot mint a cookie for an arbitrary
// account.  A missing, malformed, or mis-signed cookie resolves to "no
// identity."
//
// The cookie carries no expiry; it persists until logout reissues it
// with MaxAge -1.  Flags: HttpOnly, SameSite=Lax, Path=/, and Secure
// whenever the request arrived over TLS.

package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
)

// Manager signs and verifies session cookies.  Construct once in
// cmd/web with the configured cookie name and key.
type Manager struct {
	cookieName string
	key        []byte
}

// NewManager builds a manager.  The key must be non-empty; config
// validation enforces a minimum length upstream.
func NewManager(cookieName string, key []byte) *Manager {
	return &Manager{cookieName: cookieName, key: key}
}

// CookieName reports the external cookie name (normally "userId").
func (m *Manager) CookieName() string { return m.cookieName }

// Issue sets the session cookie for the given user id.
func (m *Manager) Issue(w http.ResponseWriter, r *http.Request, userID int64) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    m.Encode(userID),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear reissues the cookie with immediate expiry.  There is no
// server-side session row to invalidate.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserID extracts and verifies the user id from the request cookie.
// ok == false when the cookie is missing, malformed, or mis-signed.
func (m *Manager) UserID(r *http.Request) (int64, bool) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return 0, false
	}
	return m.Decode(c.Value)
}

// Encode renders "<id>.<base64url signature>".
func (m *Manager) Encode(userID int64) string {
	id := strconv.FormatInt(userID, 10)
	return id + "." + m.sign(id)
}

// Decode validates a raw cookie value and returns the embedded id.
func (m *Manager) Decode(val string) (int64, bool) {
	id, sig, ok := strings.Cut(val, ".")
	if !ok {
		return 0, false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return 0, false
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.key)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
