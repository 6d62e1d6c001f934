package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pinkbananas/users-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	col     *mongo.Collection
	timeout time.Duration
}

// NewUserRepository bounds every call by timeout, or defaultTimeout when
// timeout <= 0.
func NewUserRepository(db *mongo.Database, timeout time.Duration) *UserRepository {
	return &UserRepository{
		col:     db.Collection(userSchema.Collection),
		timeout: orDefaultTimeout(timeout),
	}
}

// FindAll returns every user in natural store order.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	users := make([]domain.User, 0)
	for cur.Next(ctx) {
		u, err := decodeUser(cur.Current)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Save replaces the document stored under the user's key, inserting it when
// absent.
func (r *UserRepository) Save(ctx context.Context, u domain.User) (domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx, userFilter(u.Key()), encodeUser(u), options.Replace().SetUpsert(true))
	if err != nil {
		return domain.User{}, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by username.
func (r *UserRepository) FindByID(ctx context.Context, username string) (domain.Option[domain.User], error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.col.FindOne(ctx, userFilter(username)).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.None[domain.User](), nil
		}
		return domain.None[domain.User](), fmt.Errorf("find user: %w", err)
	}

	u, err := decodeUser(raw)
	if err != nil {
		return domain.None[domain.User](), err
	}
	return domain.Some(u), nil
}

// DeleteByID removes the user stored under username, if any.
func (r *UserRepository) DeleteByID(ctx context.Context, username string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, userFilter(username)); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
