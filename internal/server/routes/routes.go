package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/deadlock-api/assets-api/internal/resolver"
	"github.com/deadlock-api/assets-api/internal/server"
)

// Deps 是资源路由共享的依赖。
type Deps struct {
	Tiered   *resolver.Tiered
	Pipeline *server.Pipeline
}

// Register 挂载全部资源路由：目录中的资源、英雄与物品过滤接口以及客户端版本列表。
func Register(app fiber.Router, deps Deps) {
	RegisterAssetRoutes(app, deps)
	RegisterHeroRoutes(app, deps)
	RegisterItemRoutes(app, deps)
	RegisterClientVersionRoutes(app, deps)
}

// versioned 按 版本 → 语言 → 边缘缓存 → handler 的顺序注册 GET 路由。
func versioned(app fiber.Router, path string, deps Deps, handler fiber.Handler) {
	p := deps.Pipeline
	app.Get(path, p.ResolveVersion, p.ResolveLanguage, p.EdgeCache, handler)
}

func sendJSONBytes(c fiber.Ctx, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
