// Package reqctx carries request-scoped values: the request ID and, once the
// access guard has accepted the request, the authenticated user.
package reqctx

import (
	"context"

	"github.com/ErlanBelekov/auth-service/internal/domain"
	"github.com/google/uuid"
)

type (
	requestIDKey struct{}
	userKey      struct{}
)

// NewRequestID generates a random UUID v4 request ID.
func NewRequestID() string {
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns "" when no request ID is attached.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithUser(ctx context.Context, u *domain.PublicUser) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// User returns the authenticated user, or nil on unguarded requests.
func User(ctx context.Context) *domain.PublicUser {
	u, _ := ctx.Value(userKey{}).(*domain.PublicUser)
	return u
}
