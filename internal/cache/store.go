package cache

import (
	"context"
	"errors"
	"time"
)

// Store 是带 TTL 的键值缓存。实现必须支持多 goroutine 并发访问。
type Store interface {
	// Get 返回完整的缓存值；不存在或已过期时返回 ErrNotFound。
	Get(ctx context.Context, key string) ([]byte, error)

	// Put 以整体覆盖的方式写入 value，ttl <= 0 表示永不过期。
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ErrNotFound 表示缓存不存在或已过期。
var ErrNotFound = errors.New("cache entry not found")
