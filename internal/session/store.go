package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store tracks which session ids are live and which user each one is
// bound to. A signed token alone is not a session: revoking the store
// entry ends the session even while the signature is still valid.
type Store interface {
	Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (string, bool, error)
	Delete(ctx context.Context, sessionID string) error

	Close() error
}

// RedisStore implements Store on a Redis instance. Session entries expire
// server-side via TTL so an abandoned session needs no cleanup pass.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (s *RedisStore) Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKey(sessionID), userID, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (string, bool, error) {
	userID, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return userID, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Client exposes the underlying Redis client so other components (the
// rate limiter) can share the connection.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}
