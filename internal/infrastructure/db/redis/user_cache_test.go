package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"github.com/pinkbananas/users-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stub repository that counts calls
// ---------------------------------------------------------------------------

type countingRepo struct {
	users     map[string]domain.User
	findCalls int
	saveErr   error
	// afterFind runs once the record has been read, before FindByID returns.
	afterFind func()
}

func newCountingRepo(users ...domain.User) *countingRepo {
	r := &countingRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		r.users[u.Key()] = u
	}
	return r
}

func (r *countingRepo) FindAll(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *countingRepo) Save(_ context.Context, u domain.User) (domain.User, error) {
	if r.saveErr != nil {
		return domain.User{}, r.saveErr
	}
	r.users[u.Key()] = u
	return u, nil
}

func (r *countingRepo) FindByID(_ context.Context, username string) (domain.Option[domain.User], error) {
	r.findCalls++
	u, ok := r.users[username]
	if r.afterFind != nil {
		r.afterFind()
	}
	if !ok {
		return domain.None[domain.User](), nil
	}
	return domain.Some(u), nil
}

func (r *countingRepo) DeleteByID(_ context.Context, username string) error {
	delete(r.users, username)
	return nil
}

func newTestCache(t *testing.T, repo *countingRepo) (*UserCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewUserCache(repo, client, time.Minute, zerolog.Nop()), mr
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestUserCache_ReadThrough(t *testing.T) {
	alice := domain.NewUser("alice", "pw", "Alice", 30, 1)
	repo := newCountingRepo(alice)
	cache, mr := newTestCache(t, repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		found, err := cache.FindByID(ctx, "alice")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if u, ok := found.Get(); !ok || u != alice {
			t.Fatalf("unexpected result: %+v %v", u, ok)
		}
	}

	if repo.findCalls != 1 {
		t.Fatalf("expected a single store lookup, got %d", repo.findCalls)
	}
	if ttl := mr.TTL("user:alice"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}
}

func TestUserCache_MissIsNotCached(t *testing.T) {
	repo := newCountingRepo()
	cache, mr := newTestCache(t, repo)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		found, err := cache.FindByID(ctx, "ghost")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if found.IsSome() {
			t.Fatalf("expected no user")
		}
	}
	if repo.findCalls != 2 {
		t.Fatalf("expected every miss to hit the store, got %d", repo.findCalls)
	}
	if mr.Exists("user:ghost") {
		t.Fatalf("missing user must not be cached")
	}
}

func TestUserCache_SaveRefreshesEntry(t *testing.T) {
	repo := newCountingRepo(domain.NewUser("alice", "pw", "Alice", 30, 1))
	cache, _ := newTestCache(t, repo)
	ctx := context.Background()

	_, _ = cache.FindByID(ctx, "alice")
	if _, err := cache.Save(ctx, domain.NewUser("alice", "pw", "Alicia", 31, 2)); err != nil {
		t.Fatalf("save: %v", err)
	}

	found, _ := cache.FindByID(ctx, "alice")
	if u, _ := found.Get(); u.Name != "Alicia" {
		t.Fatalf("expected overwritten name, got %+v", u)
	}
}

func TestUserCache_SaveErrorEvicts(t *testing.T) {
	repo := newCountingRepo(domain.NewUser("alice", "pw", "Alice", 30, 1))
	cache, mr := newTestCache(t, repo)
	ctx := context.Background()

	_, _ = cache.FindByID(ctx, "alice")
	repo.saveErr = errors.New("write failed")

	if _, err := cache.Save(ctx, domain.NewUser("alice", "pw", "Alicia", 31, 2)); err == nil {
		t.Fatalf("expected save error")
	}
	if v, _ := mr.Get("user:alice"); v != tombstone {
		t.Fatalf("expected entry to be evicted after failed save, got %q", v)
	}
}

func TestUserCache_DeleteEvicts(t *testing.T) {
	repo := newCountingRepo(domain.NewUser("alice", "pw", "Alice", 30, 1))
	cache, _ := newTestCache(t, repo)
	ctx := context.Background()

	_, _ = cache.FindByID(ctx, "alice")
	if err := cache.DeleteByID(ctx, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	found, err := cache.FindByID(ctx, "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.IsSome() {
		t.Fatalf("expected alice to be gone")
	}
}

func TestUserCache_DeleteDuringReadThroughIsNotCached(t *testing.T) {
	repo := newCountingRepo(domain.NewUser("alice", "pw", "Alice", 30, 1))
	cache, mr := newTestCache(t, repo)
	ctx := context.Background()

	repo.afterFind = func() {
		repo.afterFind = nil
		if err := cache.DeleteByID(ctx, "alice"); err != nil {
			t.Fatalf("delete: %v", err)
		}
	}

	// The in-flight lookup still returns the record it read.
	if found, _ := cache.FindByID(ctx, "alice"); !found.IsSome() {
		t.Fatalf("expected the record read before the delete")
	}
	if v, _ := mr.Get("user:alice"); v != tombstone {
		t.Fatalf("stale record re-cached after delete: %q", v)
	}

	found, err := cache.FindByID(ctx, "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.IsSome() {
		t.Fatalf("deleted user served from cache")
	}
}

func TestUserCache_SaveReplacesTombstone(t *testing.T) {
	repo := newCountingRepo(domain.NewUser("alice", "pw", "Alice", 30, 1))
	cache, _ := newTestCache(t, repo)
	ctx := context.Background()

	_ = cache.DeleteByID(ctx, "alice")
	if _, err := cache.Save(ctx, domain.NewUser("alice", "pw", "Alicia", 31, 2)); err != nil {
		t.Fatalf("save: %v", err)
	}

	calls := repo.findCalls
	found, _ := cache.FindByID(ctx, "alice")
	if u, _ := found.Get(); u.Name != "Alicia" {
		t.Fatalf("expected saved record, got %+v", u)
	}
	if repo.findCalls != calls {
		t.Fatalf("expected a cache hit after save")
	}
}

func TestUserCache_CorruptEntryFallsThrough(t *testing.T) {
	repo := newCountingRepo(domain.NewUser("alice", "pw", "Alice", 30, 1))
	cache, mr := newTestCache(t, repo)

	if err := mr.Set("user:alice", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	found, err := cache.FindByID(context.Background(), "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u, ok := found.Get(); !ok || u.Name != "Alice" {
		t.Fatalf("expected store value, got %+v", u)
	}
	if repo.findCalls != 1 {
		t.Fatalf("expected store lookup, got %d", repo.findCalls)
	}
}

func TestUserCache_RedisDownFallsThrough(t *testing.T) {
	repo := newCountingRepo(domain.NewUser("alice", "pw", "Alice", 30, 1))
	cache, mr := newTestCache(t, repo)
	ctx := context.Background()
	mr.Close()

	found, err := cache.FindByID(ctx, "alice")
	if err != nil {
		t.Fatalf("expected fall-through, got %v", err)
	}
	if !found.IsSome() {
		t.Fatalf("expected user from store")
	}
	if _, err := cache.Save(ctx, domain.NewUser("bob", "pw", "Bob", 20, 0)); err != nil {
		t.Fatalf("save should ignore cache errors: %v", err)
	}
	if err := cache.DeleteByID(ctx, "bob"); err != nil {
		t.Fatalf("delete should ignore cache errors: %v", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond}); err == nil {
		t.Fatalf("expected ping error")
	}
}
