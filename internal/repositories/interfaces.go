package repositories

import (
	"context"

	"gateway-inject/internal/models"
)

// UserRepository defines operations on users
type UserRepository interface {
	// Create stores a new user and sets its ID
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// List retrieves users ordered by ID
	List(ctx context.Context, limit, offset int) ([]*models.User, error)

	// Count returns the number of users
	Count(ctx context.Context) (int64, error)
}
