package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore 以 Redis 字符串保存缓存值，TTL 由 SET EX 交给 Redis 管理。
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
}

// RedisOption 调整 RedisStore 的可选参数。
type RedisOption func(*RedisStore)

// WithKeyPrefix 为所有键添加命名空间前缀，例如 "fast" → "fast:<key>"。
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

// NewRedisStore 基于现有客户端构建缓存，客户端生命周期由调用方管理。
func NewRedisStore(rdb redis.Cmdable, opts ...RedisOption) *RedisStore {
	s := &RedisStore{rdb: rdb}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.rdb.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}
