package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/sandeepkv93/codereview-portal/internal/domain"
	"github.com/sandeepkv93/codereview-portal/internal/observability"
	"github.com/sandeepkv93/codereview-portal/internal/repository"
)

// RoleIdentity is the slice of a user record carried in the session.
type RoleIdentity struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
}

type RoleCacheStore interface {
	Backend() string
	Get(ctx context.Context, email string) (RoleIdentity, bool, error)
	Set(ctx context.Context, email string, id RoleIdentity, ttl time.Duration) error
	Invalidate(ctx context.Context, email string) error
}

type NoopRoleCacheStore struct{}

func NewNoopRoleCacheStore() *NoopRoleCacheStore { return &NoopRoleCacheStore{} }

func (NoopRoleCacheStore) Backend() string { return "none" }
func (NoopRoleCacheStore) Get(context.Context, string) (RoleIdentity, bool, error) {
	return RoleIdentity{}, false, nil
}
func (NoopRoleCacheStore) Set(context.Context, string, RoleIdentity, time.Duration) error {
	return nil
}
func (NoopRoleCacheStore) Invalidate(context.Context, string) error { return nil }

type roleCacheEntry struct {
	id        RoleIdentity
	expiresAt time.Time
}

type InMemoryRoleCacheStore struct {
	mu      sync.RWMutex
	entries map[string]roleCacheEntry
	now     func() time.Time
}

func NewInMemoryRoleCacheStore() *InMemoryRoleCacheStore {
	return &InMemoryRoleCacheStore{entries: map[string]roleCacheEntry{}, now: time.Now}
}

func (s *InMemoryRoleCacheStore) Backend() string { return "memory" }

func (s *InMemoryRoleCacheStore) Get(_ context.Context, email string) (RoleIdentity, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[email]
	s.mu.RUnlock()
	if !ok {
		return RoleIdentity{}, false, nil
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.entries[email]; ok && cur.expiresAt == e.expiresAt {
			delete(s.entries, email)
		}
		s.mu.Unlock()
		return RoleIdentity{}, false, nil
	}
	return e.id, true, nil
}

func (s *InMemoryRoleCacheStore) Set(_ context.Context, email string, id RoleIdentity, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	s.entries[email] = roleCacheEntry{id: id, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *InMemoryRoleCacheStore) Invalidate(_ context.Context, email string) error {
	s.mu.Lock()
	delete(s.entries, email)
	s.mu.Unlock()
	return nil
}

// RoleResolver answers "what role and id does this email have" for session
// refresh. Hits come from the cache; concurrent misses for one email share a
// single repository read.
type RoleResolver struct {
	users  repository.UserRepository
	store  RoleCacheStore
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

func NewRoleResolver(users repository.UserRepository, store RoleCacheStore, ttl time.Duration, logger *slog.Logger) *RoleResolver {
	if store == nil || ttl <= 0 {
		store = NewNoopRoleCacheStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RoleResolver{users: users, store: store, ttl: ttl, logger: logger}
}

func (r *RoleResolver) Resolve(ctx context.Context, email string) (RoleIdentity, error) {
	email = domain.NormalizeEmail(email)
	backend := r.store.Backend()
	id, ok, err := r.store.Get(ctx, email)
	switch {
	case err != nil:
		observability.RecordRoleCacheEvent(ctx, backend, "error")
		r.logger.WarnContext(ctx, "role cache read failed", "error", err)
	case ok:
		observability.RecordRoleCacheEvent(ctx, backend, "hit")
		return id, nil
	default:
		observability.RecordRoleCacheEvent(ctx, backend, "miss")
	}

	v, err, _ := r.group.Do(roleCacheKey(email), func() (any, error) {
		u, err := r.users.FindByEmail(context.WithoutCancel(ctx), email)
		if err != nil {
			return RoleIdentity{}, err
		}
		loaded := RoleIdentity{UserID: u.ID, Role: u.Role}
		if err := r.store.Set(ctx, email, loaded, r.ttl); err != nil {
			observability.RecordRoleCacheEvent(ctx, backend, "error")
			r.logger.WarnContext(ctx, "role cache write failed", "error", err)
		}
		return loaded, nil
	})
	if err != nil {
		return RoleIdentity{}, err
	}
	return v.(RoleIdentity), nil
}

// Invalidate drops the cached identity so the next refresh reads the store.
func (r *RoleResolver) Invalidate(ctx context.Context, email string) {
	email = domain.NormalizeEmail(email)
	if err := r.store.Invalidate(ctx, email); err != nil {
		r.logger.WarnContext(ctx, "role cache invalidate failed", "error", err)
		return
	}
	observability.RecordRoleCacheEvent(ctx, r.store.Backend(), "invalidate")
}

func roleCacheKey(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}

func IsUserNotFound(err error) bool { return errors.Is(err, repository.ErrUserNotFound) }
