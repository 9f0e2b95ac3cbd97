package ratelimit

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/deadlock-api/assets-api/internal/logging"
)

// DeniedMessage 是 429 响应体中的固定消息。
const DeniedMessage = "Too many requests"

// KeyFunc 从请求中提取限流 key。
type KeyFunc func(c fiber.Ctx) string

// Options 配置限流中间件。
type Options struct {
	Limiter Limiter
	KeyFn   KeyFunc
	Logger  *logrus.Logger
}

// DefaultKeyFunc 使用连接的远端地址；开启 TrustProxy 时 Fiber 会改用代理头。
// c.IP() 可能引用 fasthttp 复用的请求缓冲区，限流器会长期持有 key，必须复制。
func DefaultKeyFunc(c fiber.Ctx) string {
	if ip := c.IP(); ip != "" {
		return strings.Clone(ip)
	}
	return "unknown"
}

// New 返回 Fiber 中间件。限流器故障时放行请求并记录告警。
func New(opts Options) fiber.Handler {
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	return func(c fiber.Ctx) error {
		if opts.Limiter == nil {
			return c.Next()
		}

		key := opts.KeyFn(c)
		dec, err := opts.Limiter.Limit(c.Context(), key)
		if err != nil {
			opts.Logger.WithError(err).
				WithFields(logrus.Fields{"action": "ratelimit_failed", "key": key}).
				Warn("ratelimit_failed")
			return c.Next()
		}
		if !dec.Allowed {
			if dec.RetryAfter > 0 {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(dec.RetryAfter.Seconds()))))
			}
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": DeniedMessage})
		}
		return c.Next()
	}
}
