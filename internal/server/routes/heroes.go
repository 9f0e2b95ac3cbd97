package routes

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/deadlock-api/assets-api/internal/catalog"
	"github.com/deadlock-api/assets-api/internal/content"
	"github.com/deadlock-api/assets-api/internal/resolver"
	"github.com/deadlock-api/assets-api/internal/server"
)

// RegisterHeroRoutes 注册按 id 与按名称查询单个英雄的接口。
func RegisterHeroRoutes(app fiber.Router, deps Deps) {
	heroes := catalog.Heroes()
	base := heroes.Route

	versioned(app, base+"/by-name/:name", deps, func(c fiber.Ctx) error {
		name := c.Params("name")
		list, err := loadObjects(c, deps.Tiered, heroes)
		if err != nil {
			return err
		}
		if hero, ok := findHeroByName(list, name); ok {
			return c.JSON(hero)
		}
		return content.NotFound("hero not found (name: %s)", name)
	})

	versioned(app, base+"/:id", deps, func(c fiber.Ctx) error {
		raw := c.Params("id")
		id, ok := parsePositive(raw)
		if !ok {
			return content.NotFound("hero not found (id: %s)", raw)
		}
		list, err := loadObjects(c, deps.Tiered, heroes)
		if err != nil {
			return err
		}
		for _, hero := range list {
			if numberEquals(hero["id"], id) {
				return c.JSON(hero)
			}
		}
		return content.NotFound("hero not found (id: %d)", id)
	})
}

// findHeroByName 不区分大小写匹配 name，或匹配 class_name（可省略 hero_ 前缀）。
func findHeroByName(list []content.Object, name string) (content.Object, bool) {
	nameLower := strings.ToLower(name)
	classNames := []string{nameLower, "hero_" + nameLower}
	for _, hero := range list {
		if strings.ToLower(stringField(hero, "name")) == nameLower {
			return hero, true
		}
		className := strings.ToLower(stringField(hero, "class_name"))
		for _, candidate := range classNames {
			if className == candidate {
				return hero, true
			}
		}
	}
	return nil, false
}

func loadObjects(c fiber.Ctx, tiered *resolver.Tiered, asset catalog.Asset) ([]content.Object, error) {
	key := asset.ContentKey(server.Version(c), server.Language(c))
	return resolver.Resolve(c.Context(), tiered, key, content.Objects)
}
