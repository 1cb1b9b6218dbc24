package utils

import (
	"context"

	"github.com/EmpoweredVote/blog-backend/internal/models"
)

type contextKey string

const ContextUserKey contextKey = "user"

// WithUser stores the authenticated user, password stripped, on the context.
func WithUser(ctx context.Context, u *models.User) context.Context {
	clean := u.Sanitized()
	return context.WithValue(ctx, ContextUserKey, &clean)
}

func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*models.User)
	return u, ok && u != nil
}
