package ratelimit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// fakeRedis 只支持 Pipeline 中的 INCR 与 EXPIRE NX。
type fakeRedis struct {
	redis.Cmdable

	counts map[string]int64
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Pipeline() redis.Pipeliner {
	return &fakePipe{r: f}
}

type fakePipe struct {
	redis.Pipeliner

	r     *fakeRedis
	keys  []string
	incrs []*redis.IntCmd
}

func (p *fakePipe) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "incr", key)
	p.keys = append(p.keys, key)
	p.incrs = append(p.incrs, cmd)
	return cmd
}

func (p *fakePipe) ExpireNX(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	if _, ok := p.r.ttls[key]; !ok {
		p.r.ttls[key] = expiration
	}
	return redis.NewBoolCmd(ctx, "expire", key, "nx")
}

func (p *fakePipe) Exec(ctx context.Context) ([]redis.Cmder, error) {
	if p.r.err != nil {
		return nil, p.r.err
	}
	for i, key := range p.keys {
		p.r.counts[key]++
		p.incrs[i].SetVal(p.r.counts[key])
	}
	return nil, nil
}

func TestRedisLimiterFixedWindow(t *testing.T) {
	rdb := newFakeRedis()
	now := time.Date(2024, 1, 1, 0, 0, 5, 0, time.UTC)
	l := NewRedisLimiter(rdb, 2, 10*time.Second, WithRedisPrefix("assets:"))
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if dec, err := l.Limit(context.Background(), "1.2.3.4"); err != nil || !dec.Allowed {
			t.Fatalf("request %d should pass: %+v %v", i, dec, err)
		}
	}
	dec, err := l.Limit(context.Background(), "1.2.3.4")
	if err != nil || dec.Allowed {
		t.Fatalf("third request should be denied: %+v %v", dec, err)
	}
	if dec.RetryAfter != 5*time.Second {
		t.Fatalf("retry after should point at the window end, got %v", dec.RetryAfter)
	}

	for key, ttl := range rdb.ttls {
		if !strings.HasPrefix(key, "assets:1.2.3.4:") || ttl != 10*time.Second {
			t.Fatalf("unexpected counter key %s ttl %v", key, ttl)
		}
	}

	now = now.Add(5 * time.Second)
	if dec, _ := l.Limit(context.Background(), "1.2.3.4"); !dec.Allowed {
		t.Fatalf("next window should reset the counter")
	}
}

func TestRedisLimiterSurfacesErrors(t *testing.T) {
	rdb := newFakeRedis()
	rdb.err = errors.New("connection refused")
	l := NewRedisLimiter(rdb, 1, time.Second)
	if _, err := l.Limit(context.Background(), "k"); err == nil {
		t.Fatalf("expected redis error")
	}
}
