package shared

import "context"

// Identity describes the authenticated actor attached to a request after the
// auth gate verified its session token.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

type identityContextKey struct{}

// ContextWithIdentity stores the identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context. The boolean reports
// whether the auth gate placed an identity upstream.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
