// internal/session/accessor.go
//
// Server-side session accessor.
//
// Context
// -------
// Page rendering resolves the caller's identity the same way a browser
// script would: a same-origin GET to /api/me carrying the inbound
// cookies, with caching disabled so the identity is revalidated on
// every request.  Every transport or decode failure is swallowed and
// reported as "no identity"—the accessor fails open to logged-out,
// never to logged-in.

package session

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prepdesk/prepdesk/internal/user"
)

// Accessor dials the identity-resolution endpoint on behalf of
// server-rendered pages.
type Accessor struct {
	baseURL string // origin without trailing slash, e.g. http://localhost:8080
	client  *http.Client
}

// NewAccessor binds the accessor to the site origin.  Rendering suspends
// on the round trip, so the client timeout doubles as the upper bound on
// how long a protected page waits for identity.
func NewAccessor(baseURL string) *Accessor {
	return &Accessor{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// meEnvelope mirrors the /api/me response body.
type meEnvelope struct {
	User *user.Identity `json:"user"`
}

// Current returns the identity for the inbound request, or nil.
func (a *Accessor) Current(r *http.Request) *user.Identity {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/me", nil)
	if err != nil {
		return nil
	}

	// Forward the caller's cookie jar verbatim and force revalidation.
	if raw := r.Header.Get("Cookie"); raw != "" {
		req.Header.Set("Cookie", raw)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	// 401 still carries {user:null}; any decode failure means no identity.
	var env meEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil
	}
	return env.User
}
