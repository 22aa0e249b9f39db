package repository

import (
	"context"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
)

// UserRepository defines storage and retrieval of user accounts.
type UserRepository interface {
	// FindByEmail looks a user up by email address. Returns
	// ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByID looks a user up by primary key. Returns ErrUserNotFound
	// when absent.
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// FindByGoogleID looks a user up by OAuth provider id. Returns
	// ErrUserNotFound when absent.
	FindByGoogleID(ctx context.Context, googleID string) (*domain.User, error)

	// Save creates the user when ID is zero, updates otherwise. A unique
	// constraint violation surfaces as ErrDuplicateEntry.
	Save(ctx context.Context, user *domain.User) error
}
