package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/deadlock-api/assets-api/internal/cache"
	"github.com/deadlock-api/assets-api/internal/content"
	"github.com/deadlock-api/assets-api/internal/logging"
	"github.com/deadlock-api/assets-api/internal/origin"
)

// DefaultTTL 是快速缓存条目的默认有效期。
const DefaultTTL = 7 * 24 * time.Hour

// Options 汇总 Tiered 的依赖。
type Options struct {
	Fast   cache.Store
	Origin origin.Store
	Writer *cache.Writer
	TTL    time.Duration
	Prefix string
	Logger *logrus.Logger
}

// Tiered 串联快速缓存与源站。同一请求内严格按 “快速缓存 → 源站” 顺序访问，
// 回填写入交给 Writer，不阻塞响应；并发未命中不做合并。
type Tiered struct {
	fast   cache.Store
	origin origin.Store
	writer *cache.Writer
	ttl    time.Duration
	prefix string
	logger *logrus.Logger
}

// NewTiered 构建分层读取器；Writer 为空时回填在独立 goroutine 中执行。
func NewTiered(opts Options) *Tiered {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Tiered{
		fast:   opts.Fast,
		origin: opts.Origin,
		writer: opts.Writer,
		ttl:    opts.TTL,
		prefix: opts.Prefix,
		logger: opts.Logger,
	}
}

// Prefix 返回对象存储键前缀。
func (t *Tiered) Prefix() string {
	return t.prefix
}

// Resolve 读取 key 对应的对象并用 dec 解码。
//
// 快速缓存命中时不访问源站也不重写缓存；未命中时回源，对象缺失返回 NotFound，
// 内容为空或无法解码返回 Corrupted，其余源站错误原样返回。
func Resolve[T any](ctx context.Context, t *Tiered, key content.Key, dec content.Decoder[T]) (T, error) {
	var zero T
	storageKey := key.StorageKey(t.prefix)

	if raw, ok := t.lookupFast(ctx, storageKey); ok {
		value, err := decode(raw, dec)
		if err != nil {
			return zero, content.Corrupted(key, err)
		}
		return value, nil
	}

	raw, err := t.origin.Get(ctx, storageKey)
	if err != nil {
		if errors.Is(err, origin.ErrNotFound) {
			return zero, content.ObjectNotFound(key)
		}
		return zero, err
	}

	value, err := decode(raw, dec)
	if err != nil {
		return zero, content.Corrupted(key, err)
	}

	t.populate(ctx, storageKey, raw)
	return value, nil
}

func decode[T any](raw []byte, dec content.Decoder[T]) (T, error) {
	if len(raw) == 0 {
		var zero T
		return zero, errors.New("empty payload")
	}
	return dec(raw)
}

// lookupFast 把快速缓存故障视作未命中，只记录告警。
func (t *Tiered) lookupFast(ctx context.Context, storageKey string) ([]byte, bool) {
	if t.fast == nil {
		return nil, false
	}
	raw, err := t.fast.Get(ctx, storageKey)
	switch {
	case err == nil:
		return raw, true
	case errors.Is(err, cache.ErrNotFound):
		return nil, false
	default:
		t.logger.WithError(err).
			WithFields(logging.TierFields("fast_cache_get_failed", "fast", storageKey)).
			Warn("fast_cache_get_failed")
		return nil, false
	}
}

func (t *Tiered) populate(ctx context.Context, storageKey string, raw []byte) {
	if t.fast == nil {
		return
	}
	payload := append([]byte(nil), raw...)
	run := func(ctx context.Context) error {
		return t.fast.Put(ctx, storageKey, payload, t.ttl)
	}

	if t.writer != nil {
		t.writer.Submit(ctx, cache.Job{Tier: "fast", Key: storageKey, Run: run})
		return
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		if err := run(detached); err != nil {
			t.logger.WithError(err).
				WithFields(logging.TierFields("cache_write_failed", "fast", storageKey)).
				Warn("background cache write failed")
		}
	}()
}
