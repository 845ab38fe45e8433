package session

import (
	"context"

	"github.com/marco-souza/tremtec/internal/model"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the identity value.
type contextKey struct{}

var userKey contextKey

// WithUser returns a context carrying the authenticated user. The
// access-control middleware is the only writer; handlers and templates are
// the readers.
func WithUser(ctx context.Context, user model.UserSession) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the request's authenticated user.
// Returns (zero, false) for anonymous requests.
func UserFromContext(ctx context.Context) (model.UserSession, bool) {
	user, ok := ctx.Value(userKey).(model.UserSession)
	return user, ok
}
