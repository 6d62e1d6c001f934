package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pinkbananas/users-api/internal/api/metrics"
	"github.com/pinkbananas/users-api/internal/core/domain"
	"github.com/pinkbananas/users-api/internal/core/ports"
)

const defaultCacheTTL = 5 * time.Minute

// tombstone marks a key whose store record was deleted or may have changed.
// Lookups treat it as a miss, and read-through fills never overwrite it.
const tombstone = "-"

// UserCache is a read-through cache in front of another UserRepository.
// Key format: user:<username>
//
// Redis failures are logged and the call falls through to the wrapped
// repository, so the cache never changes what callers observe.
//
// Read-through fills use SET NX, and deletes leave a tombstone for one TTL.
// A lookup that read a record before a concurrent delete therefore cannot
// re-cache it afterwards.
type UserCache struct {
	next   ports.UserRepository
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewUserCache wraps next. If ttl <= 0, defaultCacheTTL is used.
func NewUserCache(next ports.UserRepository, client *redis.Client, ttl time.Duration, log zerolog.Logger) *UserCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &UserCache{next: next, client: client, ttl: ttl, log: log}
}

// FindAll is not cached.
func (c *UserCache) FindAll(ctx context.Context) ([]domain.User, error) {
	return c.next.FindAll(ctx)
}

// Save writes through and refreshes the cached entry.
func (c *UserCache) Save(ctx context.Context, u domain.User) (domain.User, error) {
	saved, err := c.next.Save(ctx, u)
	if err != nil {
		// The store may or may not have applied the write.
		c.bury(ctx, u.Key())
		return saved, err
	}
	c.store(ctx, saved)
	return saved, nil
}

// FindByID serves from the cache when possible. Only found users are cached.
func (c *UserCache) FindByID(ctx context.Context, username string) (domain.Option[domain.User], error) {
	if u, ok := c.load(ctx, username); ok {
		return domain.Some(u), nil
	}

	found, err := c.next.FindByID(ctx, username)
	if err != nil {
		return found, err
	}
	if u, ok := found.Get(); ok {
		c.fill(ctx, u)
	}
	return found, nil
}

// DeleteByID deletes from the store, then replaces the cached entry with a
// tombstone.
func (c *UserCache) DeleteByID(ctx context.Context, username string) error {
	err := c.next.DeleteByID(ctx, username)
	c.bury(ctx, username)
	return err
}

func (c *UserCache) load(ctx context.Context, username string) (domain.User, bool) {
	b, err := c.client.Get(ctx, c.key(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		} else {
			metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
			c.log.Warn().Err(err).Str("username", username).Msg("cache lookup failed, reading from store")
		}
		return domain.User{}, false
	}
	if string(b) == tombstone {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return domain.User{}, false
	}

	var u domain.User
	if err := json.Unmarshal(b, &u); err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Str("username", username).Msg("corrupt cache entry, reading from store")
		return domain.User{}, false
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return u, true
}

// store overwrites the entry, tombstone included. Used after a successful save.
func (c *UserCache) store(ctx context.Context, u domain.User) {
	b, err := json.Marshal(u)
	if err != nil {
		c.log.Warn().Err(err).Str("username", u.Key()).Msg("failed to encode cache entry")
		return
	}
	if err := c.client.Set(ctx, c.key(u.Key()), b, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("username", u.Key()).Msg("failed to set cache entry")
	}
}

// fill caches a record read from the store unless the key is already taken.
func (c *UserCache) fill(ctx context.Context, u domain.User) {
	b, err := json.Marshal(u)
	if err != nil {
		c.log.Warn().Err(err).Str("username", u.Key()).Msg("failed to encode cache entry")
		return
	}
	if err := c.client.SetNX(ctx, c.key(u.Key()), b, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("username", u.Key()).Msg("failed to fill cache entry")
	}
}

func (c *UserCache) bury(ctx context.Context, username string) {
	if err := c.client.Set(ctx, c.key(username), tombstone, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("username", username).Msg("failed to evict cache entry")
	}
}

func (c *UserCache) key(username string) string {
	return fmt.Sprintf("user:%s", username)
}
