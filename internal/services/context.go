package services

import (
	"context"

	"github.com/google/uuid"
)

type userCtxKey struct{}

// WithUserContext stores the authenticated profile id on the context.
func WithUserContext(ctx context.Context, profileID uuid.UUID) context.Context {
	return context.WithValue(ctx, userCtxKey{}, profileID)
}

// UserIDFromContext returns the authenticated profile id, if any.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userCtxKey{}).(uuid.UUID)
	return id, ok
}
