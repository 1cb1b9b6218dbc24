package posts

import (
	"context"

	"github.com/EmpoweredVote/blog-backend/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 8
	MaxLimit     = 100
	MaxPage      = 1 << 20
)

// Store is the persistence contract for posts. Every returned post carries
// its author projection.
type Store interface {
	List(ctx context.Context) ([]models.Post, error)
	// ListPublished returns one page of published posts and the total number of published posts.
	ListPublished(ctx context.Context, page, limit int) ([]models.Post, int64, error)
	FindByID(ctx context.Context, id int) (*models.Post, error)
	// Create returns models.ErrAuthorNotFound when AuthorID names no user.
	Create(ctx context.Context, in models.NewPost) (*models.Post, error)
	Update(ctx context.Context, id int, ch models.PostChanges) (*models.Post, error)
	Delete(ctx context.Context, id int) error
	// EnsurePost creates the post unless the author already has one with the same title.
	EnsurePost(ctx context.Context, in models.NewPost) (*models.Post, error)
}
