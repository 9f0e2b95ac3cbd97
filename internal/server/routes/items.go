package routes

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/deadlock-api/assets-api/internal/catalog"
	"github.com/deadlock-api/assets-api/internal/content"
)

// ItemSlotTypes 是 by-slot-type 接口接受的取值。
var ItemSlotTypes = []string{"weapon", "ability", "upgrade", "tech", "armor"}

// movementAbilities 是所有英雄共有的通用动作，按英雄筛选时剔除。
var movementAbilities = []string{
	"citadel_ability_climb_rope",
	"citadel_ability_dash",
	"citadel_ability_sprint",
	"citadel_ability_melee_parry",
	"citadel_ability_jump",
	"citadel_ability_mantle",
	"citadel_ability_slide",
	"citadel_ability_zip_line",
	"citadel_ability_zipline_boost",
}

// RegisterItemRoutes 注册物品的单项查询、按英雄与按槽位筛选接口。
func RegisterItemRoutes(app fiber.Router, deps Deps) {
	items := catalog.Items()
	base := items.Route

	versioned(app, base+"/by-hero-id/:hero_id", deps, func(c fiber.Ctx) error {
		raw := c.Params("hero_id")
		heroID, ok := parseInteger(raw)
		if !ok {
			return content.NotFound("hero not found (id: %s)", raw)
		}
		list, err := loadObjects(c, deps.Tiered, items)
		if err != nil {
			return err
		}
		return c.JSON(itemsForHero(list, heroID))
	})

	versioned(app, base+"/by-slot-type/:item_slot_type", deps, func(c fiber.Ctx) error {
		slotType := c.Params("item_slot_type")
		if !slices.Contains(ItemSlotTypes, slotType) {
			return content.NotFound("item type not found (type: %s) - must be one of %s)", slotType, strings.Join(ItemSlotTypes, ", "))
		}
		list, err := loadObjects(c, deps.Tiered, items)
		if err != nil {
			return err
		}
		filtered := make([]content.Object, 0)
		for _, item := range list {
			if stringField(item, "type") == slotType {
				filtered = append(filtered, item)
			}
		}
		return c.JSON(filtered)
	})

	// 参数整体是整数时按 id 查找；"12abc" 这类带数字前缀的值不截取前缀，按 class_name 匹配。
	versioned(app, base+"/:id_or_classname", deps, func(c fiber.Ctx) error {
		raw := c.Params("id_or_classname")
		list, err := loadObjects(c, deps.Tiered, items)
		if err != nil {
			return err
		}
		if item, ok := findItem(list, raw); ok {
			return c.JSON(item)
		}
		return content.NotFound("item not found (id_or_classname: %s)", raw)
	})
}

// findItem 参数是整数时按 id 匹配，否则按 class_name 精确匹配。
func findItem(list []content.Object, idOrClassName string) (content.Object, bool) {
	id, isID := parseInteger(idOrClassName)
	for _, item := range list {
		if isID && numberEquals(item["id"], id) {
			return item, true
		}
		if !isID && stringField(item, "class_name") == idOrClassName {
			return item, true
		}
	}
	return nil, false
}

func itemsForHero(list []content.Object, heroID int64) []content.Object {
	result := make([]content.Object, 0)
	for _, item := range list {
		if slices.Contains(movementAbilities, stringField(item, "class_name")) {
			continue
		}
		heroes, _ := item["heroes"].([]any)
		for _, h := range heroes {
			if numberEquals(h, heroID) {
				result = append(result, item)
				break
			}
		}
	}
	return result
}
