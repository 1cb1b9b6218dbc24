package auth

import (
	"context"

	"github.com/EmpoweredVote/blog-backend/internal/models"
)

// CredentialStore is everything the auth endpoints need from user storage.
//
// FindByCredentials returns models.ErrInvalidCredentials for an unknown email
// and for a wrong password alike. FindByID returns models.ErrNotFound when
// absent. UpsertByEmail creates the user if the email is free and otherwise
// returns the existing record untouched.
type CredentialStore interface {
	FindByCredentials(ctx context.Context, email, password string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpsertByEmail(ctx context.Context, in models.NewUser) (*models.User, error)
}

// Registrar creates new accounts for self-registration.
type Registrar interface {
	Create(ctx context.Context, in models.NewUser) (*models.User, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}
