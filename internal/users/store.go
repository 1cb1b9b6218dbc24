package users

import (
	"context"

	"github.com/EmpoweredVote/blog-backend/internal/models"
)

// Store is the persistence contract for users. Lookups by id return
// models.ErrNotFound when absent; duplicate email or username on write
// returns models.ErrConflict.
type Store interface {
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, in models.NewUser) (*models.User, error)
	Update(ctx context.Context, id string, ch models.UserChanges) (*models.User, error)
	// Delete removes the user and all of their posts atomically.
	Delete(ctx context.Context, id string) error
	SetAvatar(ctx context.Context, id string, path *string) error
}
