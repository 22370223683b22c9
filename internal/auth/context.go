// internal/auth/context.go
//
// Request-context carrier for the resolved identity.
//
// Usage
// -----
//     // Attach the identity after the role gate resolves it.
//     ctx = auth.WithIdentity(ctx, ident)
//
//     // Downstream handlers and templates retrieve it.
//     ident, ok := auth.IdentityFromContext(ctx)
//
// The identity lives only for the request; nothing here persists it.

package auth

import (
	"context"

	"github.com/prepdesk/prepdesk/internal/user"
)

// identityKey is unexported to avoid context-key collisions.
type identityKey struct{}

// WithIdentity returns a new context carrying the resolved identity.
func WithIdentity(ctx context.Context, ident *user.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

// IdentityFromContext extracts the identity from ctx.  It returns
// (nil, false) when no identity was attached.
func IdentityFromContext(ctx context.Context) (*user.Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(*user.Identity)
	return ident, ok && ident != nil
}
