package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces session keys in a shared database.
const DefaultRedisPrefix = "tonplace:session:"

// RedisStore keeps tokens in Redis so several processes can share one login.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. A zero ttl keeps tokens forever.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// DialRedis parses a redis:// URL, connects and checks the connection.
func DialRedis(ctx context.Context, redisURL, prefix string, ttl time.Duration) (*RedisStore, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStore(client, prefix, ttl), nil
}

func (s *RedisStore) key(phone string) (string, error) {
	if phone == "" {
		return "", ErrEmptyKey
	}
	return s.prefix + phone, nil
}

func (s *RedisStore) Get(ctx context.Context, phone string) (string, bool, error) {
	key, err := s.key(phone)
	if err != nil {
		return "", false, err
	}

	token, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session from redis: %w", err)
	}
	return token, true, nil
}

func (s *RedisStore) Set(ctx context.Context, phone, token string) error {
	key, err := s.key(phone)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, phone string) error {
	key, err := s.key(phone)
	if err != nil {
		return err
	}

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
