package ports

import (
	"context"

	"github.com/pinkbananas/users-api/internal/core/domain"
)

// UserRepository defines persistence primitives for users, keyed by username.
type UserRepository interface {
	FindAll(ctx context.Context) ([]domain.User, error)
	// Save inserts the user or overwrites the record stored under the same
	// username.
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, username string) (domain.Option[domain.User], error)
	// DeleteByID removes the record if present; deleting a missing key is not an error.
	DeleteByID(ctx context.Context, username string) error
}
