// Package redisstate holds short-lived server state kept in Redis: OAuth
// login state tokens. Rate-limit counters live in the middleware package,
// which talks to Redis directly.
package redisstate

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const oauthStateTTL = 10 * time.Minute

// RedisStateStore implements service.OAuthStateStore.
type RedisStateStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStateStore creates a RedisStateStore instance.
func NewRedisStateStore(client *redis.Client, keyPrefix string) *RedisStateStore {
	if client == nil {
		panic("redis client cannot be nil for RedisStateStore")
	}
	if keyPrefix == "" {
		keyPrefix = "ez:"
	}
	return &RedisStateStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisStateStore) oauthStateKey(state string) string {
	return fmt.Sprintf("%soauth:state:%s", s.keyPrefix, state)
}

// SaveOAuthState records a state token ahead of the provider redirect.
func (s *RedisStateStore) SaveOAuthState(ctx context.Context, state string) error {
	key := s.oauthStateKey(state)
	if err := s.client.Set(ctx, key, "1", oauthStateTTL).Err(); err != nil {
		return fmt.Errorf("redis: save oauth state: %w", err)
	}
	return nil
}

// ConsumeOAuthState checks a returned state token and deletes it, so each
// token authorizes exactly one callback.
func (s *RedisStateStore) ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	key := s.oauthStateKey(state)
	deleted, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis: consume oauth state: %w", err)
	}
	return deleted > 0, nil
}
