package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter 在 Redis 上实现固定窗口计数，多实例共享同一份额度。
// 每个窗口一个计数键：INCR 后以 EXPIRE NX 设置过期，窗口结束后自动消失。
type RedisLimiter struct {
	rdb    redis.Cmdable
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// RedisLimiterOption 调整 RedisLimiter 的可选参数。
type RedisLimiterOption func(*RedisLimiter)

func WithRedisPrefix(prefix string) RedisLimiterOption {
	return func(l *RedisLimiter) { l.prefix = strings.Trim(prefix, ":") }
}

// NewRedisLimiter 构建共享限流器；客户端生命周期由调用方管理。
func NewRedisLimiter(rdb redis.Cmdable, limit int, window time.Duration, opts ...RedisLimiterOption) *RedisLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}
	l := &RedisLimiter{
		rdb:    rdb,
		prefix: "ratelimit",
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *RedisLimiter) Limit(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	slot := now.UnixNano() / int64(l.window)
	windowEnd := time.Unix(0, (slot+1)*int64(l.window))
	counterKey := l.prefix + ":" + key + ":" + strconv.FormatInt(slot, 10)

	pipe := l.rdb.Pipeline()
	incr := pipe.Incr(ctx, counterKey)
	pipe.ExpireNX(ctx, counterKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{Key: key}, fmt.Errorf("redis ratelimit: %w", err)
	}

	if incr.Val() > l.limit {
		return Decision{Key: key, RetryAfter: windowEnd.Sub(now)}, nil
	}
	return Decision{Key: key, Allowed: true}, nil
}
