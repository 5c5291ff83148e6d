package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore shares sessions between replicas. Keys are written without a
// TTL.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// NewRedisClient creates and pings a client.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func (s *RedisStore) Put(ctx context.Context, token, role string) error {
	return s.rdb.Set(ctx, keyPrefix+token, role, 0).Err()
}

func (s *RedisStore) Get(ctx context.Context, token string) (string, bool, error) {
	role, err := s.rdb.Get(ctx, keyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return role, true, nil
}
