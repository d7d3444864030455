package resettokens

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store using Redis. Tokens are stored under
// "reset:<token>" with the account email as value and TTL handled by Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed token store. Prefix may be empty.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "reset:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(token string) string {
	return s.prefix + token
}

func (s *RedisStore) Mint(ctx context.Context, email string, ttl time.Duration) (string, error) {
	tok, err := newToken()
	if err != nil {
		return "", err
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, s.key(tok), email, ttl).Err(); err != nil {
		return "", err
	}
	return tok, nil
}

func (s *RedisStore) Lookup(ctx context.Context, token string) (string, error) {
	email, err := s.client.Get(ctx, s.key(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return email, nil
}

func (s *RedisStore) Consume(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}
