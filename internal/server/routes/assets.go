package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/deadlock-api/assets-api/internal/catalog"
	"github.com/deadlock-api/assets-api/internal/content"
	"github.com/deadlock-api/assets-api/internal/resolver"
	"github.com/deadlock-api/assets-api/internal/server"
)

// ClientVersionsName 是客户端版本列表的静态对象名。
const ClientVersionsName = "client_versions.json"

// RegisterAssetRoutes 为目录中的每个资源注册一条 GET 路由。
func RegisterAssetRoutes(app fiber.Router, deps Deps) {
	for _, asset := range catalog.List() {
		versioned(app, asset.Route, deps, assetHandler(deps.Tiered, asset))
	}
}

func assetHandler(tiered *resolver.Tiered, asset catalog.Asset) fiber.Handler {
	decode := validatedJSON
	if asset.Raw {
		decode = content.Raw
	}
	return func(c fiber.Ctx) error {
		key := asset.ContentKey(server.Version(c), server.Language(c))
		body, err := resolver.Resolve(c.Context(), tiered, key, decode)
		if err != nil {
			return err
		}
		return sendJSONBytes(c, body)
	}
}

// validatedJSON 校验内容后返回原始字节，保证响应与存储逐字节一致。
func validatedJSON(raw []byte) ([]byte, error) {
	return content.RawJSON(raw)
}

// RegisterClientVersionRoutes 暴露不随版本变化的客户端版本列表。
func RegisterClientVersionRoutes(app fiber.Router, deps Deps) {
	key := content.Static(ClientVersionsName)
	app.Get("/v2/client-versions", deps.Pipeline.EdgeCache, func(c fiber.Ctx) error {
		body, err := resolver.Resolve(c.Context(), deps.Tiered, key, content.Raw)
		if err != nil {
			return err
		}
		return sendJSONBytes(c, body)
	})
}
