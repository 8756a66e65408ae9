// internal/auth/context.go
//
// Request-scoped identity.
//
// Usage
// -----
//     // Authenticate middleware, after the token verified.
//     ctx = auth.WithClaims(ctx, claims)
//
//     // Downstream handlers and the role gate.
//     claims, ok := auth.ClaimsFrom(ctx)
//     email := claims.Email()
//
// Notes
// -----
// • The claims map is shared, not copied; treat it as read-only.
// • Oxford commas, two spaces after periods.

package auth

import (
	"context"

	"github.com/rokibulislampro/mnly-server/internal/token"
)

// claimsKey is unexported to avoid context-key collisions.
type claimsKey struct{}

// WithClaims returns a new context carrying the verified claims.
func WithClaims(ctx context.Context, c token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFrom extracts the claims from ctx.  It returns (nil, false) when the
// request was not authenticated.
func ClaimsFrom(ctx context.Context) (token.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(token.Claims)
	return c, ok
}
