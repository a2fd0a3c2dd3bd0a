// Package identity carries the caller resolved by the upstream gateway.
// Values placed here are already verified; nothing in this module
// re-checks credentials.
package identity

import (
	"context"

	"github.com/alexanderramin/worktime/internal/domain"
)

// Caller is the trusted (user id, role) pair for the current request.
type Caller struct {
	UserID int64
	Role   domain.Role
}

func (c Caller) IsAdmin() bool {
	return c.Role == domain.RoleAdmin
}

type callerKey struct{}

// WithCaller returns a copy of ctx carrying c.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// FromContext returns the caller stored in ctx, if any.
func FromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// RequireAdmin fails closed: a missing caller is treated the same as a
// non-admin one.
func RequireAdmin(ctx context.Context) error {
	c, ok := FromContext(ctx)
	if !ok || !c.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
