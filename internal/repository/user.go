package repository

import (
	"context"

	"filesapi/internal/model"
)

// UserRepository defines data access for users using SQL queries only.
// No business logic here, strictly persistence operations.
type UserRepository interface {
	// Create inserts a new user record and returns the stored row.
	// Returns ErrDuplicateEmail when the email is already registered.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByEmail returns a user by exact email match.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID returns a user by its ID.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Count returns the total number of users.
	Count(ctx context.Context) (int, error)
}
