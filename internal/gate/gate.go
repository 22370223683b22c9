// internal/gate/gate.go
//
// Role gate: layout-level access control for the admin and student
// sections.
//
// Context
// -------
// Three states, evaluated once per server-rendered request:
//
//	Unauthenticated → 302 /login
//	WrongRole       → 302 to the root of the section matching the role
//	Authorized      → identity injected into the request context, render
//
// Redirects never surface an error; they silently steer the browser.
// The gate consumes whatever the session accessor resolves, so a failed
// or forged cookie lands in Unauthenticated, never in Authorized.

package gate

import (
	"net/http"

	"github.com/prepdesk/prepdesk/internal/auth"
	"github.com/prepdesk/prepdesk/internal/metrics"
	"github.com/prepdesk/prepdesk/internal/user"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// IdentitySource yields the identity for an inbound request, or nil.
// *session.Accessor satisfies it.
type IdentitySource interface {
	Current(r *http.Request) *user.Identity
}

// Gate wraps section routers with role checks.
type Gate struct {
	source IdentitySource
}

// New builds a gate over the given identity source.
func New(source IdentitySource) *Gate { return &Gate{source: source} }

// Require returns middleware admitting only the given role.
func (g *Gate) Require(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := g.source.Current(r)
			if ident == nil {
				metrics.GateRedirectTotal.WithLabelValues("unauthenticated").Inc()
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}
			if ident.Role != role {
				metrics.GateRedirectTotal.WithLabelValues("wrong_role").Inc()
				http.Redirect(w, r, SectionRoot(ident.Role), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), ident)))
		})
	}
}

// SectionRoot maps a role to its dashboard root.
func SectionRoot(role user.Role) string {
	if role == user.RoleAdmin {
		return "/admin"
	}
	return "/student"
}
