// Package identity carries the authenticated user of a request through its
// context.Context. The value is stored by copy and never mutated afterwards.
package identity

import (
	"context"

	"github.com/sirpyerre/postboard/internal/core/domain"
)

type contextKey struct{}

// WithUser returns a child context bound to user.
func WithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// FromContext returns the user bound by WithUser. ok is false when the
// context never passed through the auth middleware.
func FromContext(ctx context.Context) (user domain.User, ok bool) {
	user, ok = ctx.Value(contextKey{}).(domain.User)
	if ok && user.ID <= 0 {
		return domain.User{}, false
	}
	return user, ok
}
