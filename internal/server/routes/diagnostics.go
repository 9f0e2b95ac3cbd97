package routes

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/deadlock-api/assets-api/internal/cache"
	"github.com/deadlock-api/assets-api/internal/catalog"
	"github.com/deadlock-api/assets-api/internal/version"
)

// StatusSource 提供诊断接口需要的运行时信息。
type StatusSource struct {
	Backends map[string]string
	Writer   *cache.Writer
}

// RegisterDiagnosticsRoutes 暴露 /-/status 与 /-/assets/:key，不经过限流与边缘缓存。
func RegisterDiagnosticsRoutes(app fiber.Router, src StatusSource) {
	app.Get("/-/status", func(c fiber.Ctx) error {
		payload := fiber.Map{
			"version":  version.Full(),
			"backends": src.Backends,
			"assets":   encodeAssets(catalog.List()),
		}
		if src.Writer != nil {
			payload["background_writer"] = src.Writer.Stats()
		}
		return c.JSON(payload)
	})

	app.Get("/-/assets/:key", func(c fiber.Ctx) error {
		key := strings.ToLower(strings.TrimSpace(c.Params("key")))
		asset, ok := catalog.Resolve(key)
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "asset not found (key: " + key + ")"})
		}
		return c.JSON(encodeAsset(asset))
	})
}

type assetPayload struct {
	Key         string `json:"key"`
	Route       string `json:"route"`
	LogicalPath string `json:"logical_path"`
	Localized   bool   `json:"localized"`
	Raw         bool   `json:"raw"`
	Description string `json:"description"`
}

func encodeAssets(assets []catalog.Asset) []assetPayload {
	result := make([]assetPayload, 0, len(assets))
	for _, asset := range assets {
		result = append(result, encodeAsset(asset))
	}
	return result
}

func encodeAsset(asset catalog.Asset) assetPayload {
	return assetPayload{
		Key:         asset.Key,
		Route:       asset.Route,
		LogicalPath: asset.LogicalPath,
		Localized:   asset.Localized,
		Raw:         asset.Raw,
		Description: asset.Description,
	}
}
