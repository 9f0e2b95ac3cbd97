package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter 为每个 key 维护一个 x/time/rate 令牌桶，并定期清理闲置的 key。
// 每个窗口允许 limit 次请求，突发上限同为 limit。
type MemoryLimiter struct {
	mu           sync.Mutex
	entries      map[string]*limiterEntry
	rps          rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// MemoryOption 调整 MemoryLimiter 的清理策略。
type MemoryOption func(*MemoryLimiter)

// WithIdleTTL 设置 key 闲置多久后可被清理。
func WithIdleTTL(d time.Duration) MemoryOption {
	return func(l *MemoryLimiter) { l.idleTTL = d }
}

// WithCleanupEvery 设置 StartJanitor 的清理周期，d <= 0 时不启动。
func WithCleanupEvery(d time.Duration) MemoryOption {
	return func(l *MemoryLimiter) { l.cleanupEvery = d }
}

func withClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) { l.now = now }
}

// NewMemoryLimiter 构建进程内限流器，limit 与 window 必须为正数。
func NewMemoryLimiter(limit int, window time.Duration, opts ...MemoryOption) *MemoryLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}
	l := &MemoryLimiter{
		entries:      make(map[string]*limiterEntry),
		rps:          rate.Limit(float64(limit) / window.Seconds()),
		burst:        limit,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MemoryLimiter) Limit(ctx context.Context, key string) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{Key: key}, err
	}

	now := l.now()
	lim := l.get(key, now)

	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return Decision{Key: key}, nil
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Decision{Key: key, RetryAfter: delay}, nil
	}
	return Decision{Key: key, Allowed: true}, nil
}

func (l *MemoryLimiter) get(key string, now time.Time) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ent, ok := l.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(l.rps, l.burst)
	l.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup 删除超过 idleTTL 未访问的 key。
func (l *MemoryLimiter) Cleanup() {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, ent := range l.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(l.entries, k)
		}
	}
}

// StartJanitor 启动周期清理，ctx 取消后退出。
func (l *MemoryLimiter) StartJanitor(ctx context.Context) {
	if l.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(l.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}

func (l *MemoryLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
