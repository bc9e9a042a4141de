// Package sessions stores login sessions in Redis for the session-based
// authenticator.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/obs"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

type RedisSessionStore struct {
	client goredis.Cmdable
}

func NewRedisSessionStore(client goredis.Cmdable) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) SaveSession(ctx context.Context, sessionID, username string, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "redis.sessions.Save")(&err)

	if sessionID == "" {
		return fmt.Errorf("save session: empty id: %w", domain.ErrValidation)
	}
	if err := s.client.Set(ctx, keyPrefix+sessionID, username, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) GetSession(ctx context.Context, sessionID string) (_ string, err error) {
	defer obs.Time(ctx, "redis.sessions.Get")(&err)

	username, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if errors.Is(err, goredis.Nil) {
		return "", fmt.Errorf("get session: %w", domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	return username, nil
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, sessionID string) (err error) {
	defer obs.Time(ctx, "redis.sessions.Delete")(&err)

	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
