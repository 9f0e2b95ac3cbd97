package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/deadlock-api/assets-api/internal/ratelimit"
)

// AppOptions controls how the Fiber application should behave.
type AppOptions struct {
	Logger     *logrus.Logger
	Limiter    ratelimit.Limiter
	ListenPort int
	// TrustProxy 开启后客户端地址取自 X-Forwarded-For 的第一个合法地址（仅信任回环与内网代理）。
	TrustProxy bool
}

const (
	contextKeyRequestID = "_assets_request_id"
	contextKeyVersion   = "_assets_version"
	contextKeyLanguage  = "_assets_language"
)

// NewApp builds a Fiber application with the global middleware chain and
// structured error handling. Routes are registered by the caller.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.ListenPort <= 0 {
		return nil, fmt.Errorf("invalid listen port: %d", opts.ListenPort)
	}

	handleError := errorHandler(opts.Logger)
	cfg := fiber.Config{
		CaseSensitive: true,
		ErrorHandler:  handleError,
	}
	if opts.TrustProxy {
		cfg.TrustProxy = true
		cfg.ProxyHeader = fiber.HeaderXForwardedFor
		cfg.TrustProxyConfig = fiber.TrustProxyConfig{Loopback: true, Private: true}
		// 开启校验后 c.IP() 只返回代理头中第一个合法地址，而不是整段头部。
		cfg.EnableIPValidation = true
	}
	app := fiber.New(cfg)

	app.Use(requestContextMiddleware(opts.Logger, handleError))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{fiber.MethodGet, fiber.MethodHead},
	}))

	limit := ratelimit.New(ratelimit.Options{Limiter: opts.Limiter, Logger: opts.Logger})
	app.Use(func(c fiber.Ctx) error {
		if isDiagnosticsPath(c.Path()) {
			return c.Next()
		}
		return limit(c)
	})

	return app, nil
}

// requestContextMiddleware 生成请求 ID，并在链路结束后输出一条 request 日志。
// 下游返回的错误在这里交给 ErrorHandler 渲染，以便日志记录最终状态码。
func requestContextMiddleware(logger *logrus.Logger, handleError fiber.ErrorHandler) fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		started := timeNow()
		if err := c.Next(); err != nil {
			if renderErr := handleError(c, err); renderErr != nil {
				return renderErr
			}
		}
		logRequest(logger, c, started)
		return nil
	}
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

// Version 返回版本中间件解析出的版本，未经过该中间件时为空。
func Version(c fiber.Ctx) string {
	value, _ := c.Locals(contextKeyVersion).(string)
	return value
}

// Language 返回语言中间件解析出的语言，未经过该中间件时为空。
func Language(c fiber.Ctx) string {
	value, _ := c.Locals(contextKeyLanguage).(string)
	return value
}

func isDiagnosticsPath(path string) bool {
	return strings.HasPrefix(path, "/-/")
}
