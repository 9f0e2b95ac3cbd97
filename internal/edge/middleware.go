package edge

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/deadlock-api/assets-api/internal/cache"
	"github.com/deadlock-api/assets-api/internal/logging"
)

// HeaderCacheStatus 标记响应来自边缘缓存（hit）还是下游（miss）。
const HeaderCacheStatus = "X-Assets-Cache"

// localsHit 记录本次请求是否命中边缘缓存，供请求日志使用。
const localsHit = "edge_cache_hit"

// KeyFunc 计算边缘缓存键，调用时版本与语言已经解析完成。
type KeyFunc func(c fiber.Ctx) string

// Options 配置边缘缓存中间件。
type Options struct {
	Cache  *Cache
	KeyFn  KeyFunc
	Writer *cache.Writer
	MaxAge time.Duration
	Logger *logrus.Logger
}

// New 返回边缘缓存中间件。命中时直接重放快照；未命中时执行下游，
// 仅 200 响应会被加上 Cache-Control 并异步写入缓存。边缘缓存故障按未命中处理。
func New(opts Options) fiber.Handler {
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.KeyFn == nil {
		opts.KeyFn = func(c fiber.Ctx) string { return c.BaseURL() + c.OriginalURL() }
	}
	cacheControl := "public, max-age=" + strconv.FormatInt(int64(opts.MaxAge/time.Second), 10)

	return func(c fiber.Ctx) error {
		if opts.Cache == nil || c.Method() != fiber.MethodGet {
			return c.Next()
		}

		key := opts.KeyFn(c)
		resp, ok, err := opts.Cache.Match(c.Context(), key)
		if err != nil {
			opts.Logger.WithError(err).
				WithFields(logging.TierFields("edge_match_failed", "edge", key)).
				Warn("edge_match_failed")
		}
		if ok {
			c.Locals(localsHit, true)
			return replay(c, resp)
		}

		if err := c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}

		c.Set(fiber.HeaderCacheControl, cacheControl)
		snapshot := capture(c)
		c.Set(HeaderCacheStatus, "miss")
		store(c.Context(), opts, key, snapshot)
		return nil
	}
}

// IsHit reports whether the current request was served from the edge cache.
func IsHit(c fiber.Ctx) bool {
	hit, _ := c.Locals(localsHit).(bool)
	return hit
}

func replay(c fiber.Ctx, resp *Response) error {
	for k, v := range resp.Header {
		c.Set(k, v)
	}
	c.Set(HeaderCacheStatus, "hit")
	return c.Status(resp.Status).Send(resp.Body)
}

// capture 复制响应内容；fasthttp 会复用缓冲区，不能直接持有 Body()。
func capture(c fiber.Ctx) *Response {
	res := c.Response()
	header := make(map[string]string)
	res.Header.VisitAll(func(k, v []byte) {
		key := string(k)
		if isSkippedHeader(key) {
			return
		}
		header[key] = string(v)
	})
	return &Response{
		Status: res.StatusCode(),
		Header: header,
		Body:   append([]byte(nil), res.Body()...),
	}
}

func store(ctx context.Context, opts Options, key string, snapshot *Response) {
	run := func(ctx context.Context) error {
		return opts.Cache.Put(ctx, key, snapshot)
	}
	if opts.Writer != nil {
		opts.Writer.Submit(ctx, cache.Job{Tier: "edge", Key: key, Run: run})
		return
	}

	detached := context.WithoutCancel(ctx)
	go func() {
		if err := run(detached); err != nil {
			opts.Logger.WithError(err).
				WithFields(logging.TierFields("cache_write_failed", "edge", key)).
				Warn("background cache write failed")
		}
	}()
}
