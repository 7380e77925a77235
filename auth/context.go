package auth

import (
	"context"
)

// `contextKey` is a custom type for context keys. Using a custom type prevents
// collisions with context keys defined in other packages.
type contextKey string

const identityContextKey contextKey = "auth_identity"

// Identity is the verified caller attached to a request by TokenMiddleware.
type Identity struct {
	ID string
}

// NewContextWithIdentity returns a child of ctx carrying id.
func NewContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext extracts the Identity stored by NewContextWithIdentity.
// The boolean is false when the request did not pass through TokenMiddleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey).(Identity)
	if !ok || id.ID == "" {
		return Identity{}, false
	}
	return id, true
}
