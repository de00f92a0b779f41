// Package auth resolves the caller's identity from an inbound request.
package auth

import (
	"context"
	"errors"
	"net/http"
)

// ErrUnauthenticated is returned when a request carries no valid credentials.
var ErrUnauthenticated = errors.New("unauthenticated")

// Identity is the verified caller of a request.
type Identity struct {
	UserID string
}

// Resolver turns a request into a verified identity.
type Resolver interface {
	Resolve(r *http.Request) (Identity, error)
}

type identityContextKey struct{}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(Identity)
	return identity, ok
}
