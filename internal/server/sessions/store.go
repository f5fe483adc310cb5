// Package sessions issues and resolves opaque session tokens kept in Redis.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store maps session tokens to user ids.
type Store interface {
	// Create stores a fresh token for userID and returns it.
	Create(ctx context.Context, userID string) (string, error)
	// Resolve returns the owner of token. ok is false when the token is unknown
	// or expired; that is not an error.
	Resolve(ctx context.Context, token string) (userID string, ok bool, err error)
	// Revoke deletes token. Revoking an unknown token is a no-op.
	Revoke(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

// RedisStore keeps sessions as auth_<token> keys with a fixed TTL.
type RedisStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

// NewRedisStore wraps an existing client. ttl is applied once at creation and
// never extended.
func NewRedisStore(rdb redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

var newToken = func() string {
	return uuid.NewString()
}

func key(token string) string {
	return common.SessionKeyPrefix + token
}

func (s *RedisStore) Create(ctx context.Context, userID string) (string, error) {
	token := newToken()
	// NX keeps an existing mapping intact if the generator ever repeats itself.
	ok, err := s.rdb.SetNX(ctx, key(token), userID, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("session create: token collision")
	}
	return token, nil
}

func (s *RedisStore) Resolve(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}
	userID, err := s.rdb.Get(ctx, key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("session resolve: %w", err)
	}
	return userID, true, nil
}

func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("session revoke: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
