package ports

import (
	"context"

	"github.com/pinkbananas/users-api/internal/core/domain"
)

// UserService defines the use-case operations exposed over HTTP.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	SaveUser(ctx context.Context, user domain.User) (domain.User, error)
	GetUser(ctx context.Context, username string) (domain.Option[domain.User], error)
	DeleteUser(ctx context.Context, username string) error
}
