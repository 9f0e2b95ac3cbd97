package server

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/deadlock-api/assets-api/internal/cache"
	"github.com/deadlock-api/assets-api/internal/edge"
	"github.com/deadlock-api/assets-api/internal/logging"
	"github.com/deadlock-api/assets-api/internal/resolver"
)

// PipelineOptions 汇总每个资源路由共享的中间件依赖。Edge 为空表示关闭边缘缓存。
type PipelineOptions struct {
	Versions *resolver.VersionResolver
	Edge     *edge.Cache
	Writer   *cache.Writer
	MaxAge   time.Duration
	Logger   *logrus.Logger
}

// Pipeline 提供按顺序挂载的三段中间件：ResolveVersion → ResolveLanguage → EdgeCache。
type Pipeline struct {
	// ResolveVersion 把 client_version 或 latest 指针解析为版本。
	ResolveVersion fiber.Handler
	// ResolveLanguage 把 language 查询参数解析为语言，默认 english。
	ResolveLanguage fiber.Handler
	// EdgeCache 以 URL + 版本 + 语言为键缓存完整响应。
	EdgeCache fiber.Handler
}

// NewPipeline 构建资源路由的中间件链。
func NewPipeline(opts PipelineOptions) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Pipeline{
		ResolveVersion:  versionMiddleware(opts.Versions),
		ResolveLanguage: languageMiddleware(),
		EdgeCache:       edgeMiddleware(opts),
	}
}

func versionMiddleware(versions *resolver.VersionResolver) fiber.Handler {
	return func(c fiber.Ctx) error {
		version, err := versions.Resolve(c.Context(), c.Query("client_version"))
		if err != nil {
			return err
		}
		c.Locals(contextKeyVersion, version)
		return c.Next()
	}
}

func languageMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals(contextKeyLanguage, resolver.ResolveLanguage(c.Query("language")))
		return c.Next()
	}
}

func edgeMiddleware(opts PipelineOptions) fiber.Handler {
	if opts.Edge == nil {
		return func(c fiber.Ctx) error { return c.Next() }
	}
	return edge.New(edge.Options{
		Cache:  opts.Edge,
		KeyFn:  EdgeKey,
		Writer: opts.Writer,
		MaxAge: opts.MaxAge,
		Logger: opts.Logger,
	})
}

// EdgeKey 由完整 URL 与解析后的版本、语言组成，保证 latest 切换后不会读到旧版本。
func EdgeKey(c fiber.Ctx) string {
	return c.BaseURL() + c.OriginalURL() + "|version=" + Version(c) + "|language=" + Language(c)
}
