package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisRoleCacheStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRoleCacheStore keys entries as "<prefix>:role:<sha256(email)>".
func NewRedisRoleCacheStore(client redis.UniversalClient, prefix string) *RedisRoleCacheStore {
	if prefix == "" {
		prefix = "crp"
	}
	return &RedisRoleCacheStore{client: client, prefix: prefix}
}

func (s *RedisRoleCacheStore) Backend() string { return "redis" }

func (s *RedisRoleCacheStore) key(email string) string {
	return s.prefix + ":role:" + roleCacheKey(email)
}

func (s *RedisRoleCacheStore) Get(ctx context.Context, email string) (RoleIdentity, bool, error) {
	raw, err := s.client.Get(ctx, s.key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return RoleIdentity{}, false, nil
	}
	if err != nil {
		return RoleIdentity{}, false, err
	}
	var id RoleIdentity
	if err := json.Unmarshal(raw, &id); err != nil {
		return RoleIdentity{}, false, err
	}
	return id, true, nil
}

func (s *RedisRoleCacheStore) Set(ctx context.Context, email string, id RoleIdentity, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(email), raw, ttl).Err()
}

func (s *RedisRoleCacheStore) Invalidate(ctx context.Context, email string) error {
	return s.client.Del(ctx, s.key(email)).Err()
}
