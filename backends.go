package main

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"

	"github.com/deadlock-api/assets-api/internal/cache"
	"github.com/deadlock-api/assets-api/internal/config"
	"github.com/deadlock-api/assets-api/internal/edge"
	"github.com/deadlock-api/assets-api/internal/origin"
	"github.com/deadlock-api/assets-api/internal/ratelimit"
)

// backends 持有按配置构建的各层实例，以及退出时需要释放的连接。
type backends struct {
	origin  origin.Store
	fast    cache.Store
	edge    *edge.Cache
	limiter ratelimit.Limiter

	redisClients map[config.RedisConfig]*redis.Client
	closers      []io.Closer
}

// buildBackends 依次构建 源站 → 快速缓存 → 边缘缓存 → 限流器。
// 相同地址与 DB 的 Redis 连接在各层之间复用。
func buildBackends(ctx context.Context, cfg *config.Config) (*backends, error) {
	b := &backends{redisClients: make(map[config.RedisConfig]*redis.Client)}

	store, err := origin.New(cfg.Origin)
	if err != nil {
		return nil, fmt.Errorf("初始化源站失败: %w", err)
	}
	b.origin = store

	fast, err := b.cacheStore(cfg.FastCache.Backend, cfg.FastCache.Path, cfg.FastCache.RedisConfig, "fast")
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("初始化快速缓存失败: %w", err)
	}
	b.fast = fast

	if cfg.EdgeCache.Backend != config.BackendNone {
		store, err := b.cacheStore(cfg.EdgeCache.Backend, cfg.EdgeCache.Path, cfg.EdgeCache.RedisConfig, "edge")
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("初始化边缘缓存失败: %w", err)
		}
		b.edge = edge.NewCache(store, cfg.Global.EdgeMaxAge.DurationValue())
	}

	if cfg.RateLimit.Enabled {
		limit, window := cfg.RateLimit.Limit, cfg.RateLimit.Window.DurationValue()
		switch cfg.RateLimit.Backend {
		case config.BackendRedis:
			b.limiter = ratelimit.NewRedisLimiter(b.redisClient(cfg.RateLimit.RedisConfig), limit, window)
		default:
			memory := ratelimit.NewMemoryLimiter(limit, window,
				ratelimit.WithCleanupEvery(cfg.RateLimit.CleanupInterval.DurationValue()),
				ratelimit.WithIdleTTL(cfg.RateLimit.IdleTTL.DurationValue()),
			)
			memory.StartJanitor(ctx)
			b.limiter = memory
		}
	}

	return b, nil
}

func (b *backends) cacheStore(backend, path string, rc config.RedisConfig, namespace string) (cache.Store, error) {
	switch backend {
	case config.BackendRedis:
		return cache.NewRedisStore(b.redisClient(rc), cache.WithKeyPrefix(namespace)), nil
	case config.BackendBolt:
		store, err := cache.OpenBolt(path, namespace)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, store)
		return store, nil
	case config.BackendDisk:
		return cache.NewDiskStore(path)
	case config.BackendMemory:
		return cache.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", backend)
	}
}

func (b *backends) redisClient(rc config.RedisConfig) *redis.Client {
	if client, ok := b.redisClients[rc]; ok {
		return client
	}
	client := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})
	b.redisClients[rc] = client
	b.closers = append(b.closers, client)
	return client
}

// Close 释放 bolt 文件锁与 Redis 连接，返回遇到的第一个错误。
func (b *backends) Close() error {
	var first error
	for _, closer := range b.closers {
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	b.closers = nil
	return first
}
