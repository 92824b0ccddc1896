package identity

import (
	"context"

	"github.com/ecoquest/community/internal/models"
)

type ctxKey struct{}

// WithUser stores the resolved acting user on the context. A nil user leaves
// the request anonymous.
func WithUser(ctx context.Context, user *models.UserSummary) context.Context {
	if user == nil {
		return ctx
	}
	copied := *user
	return context.WithValue(ctx, ctxKey{}, &copied)
}

// FromContext returns the acting user, or nil when the request is anonymous.
func FromContext(ctx context.Context) *models.UserSummary {
	if ctx == nil {
		return nil
	}
	user, _ := ctx.Value(ctxKey{}).(*models.UserSummary)
	return user
}
