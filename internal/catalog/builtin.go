package catalog

// 游戏解包后的原始数据，内容不保证是严格 JSON，原样透传。
func init() {
	MustRegister(Asset{Key: "raw_heroes", Route: "/raw/heroes", LogicalPath: "raw_heroes", Raw: true, Description: "unprocessed hero data"})
	MustRegister(Asset{Key: "raw_items", Route: "/raw/items", LogicalPath: "raw_items", Raw: true, Description: "unprocessed item data"})
	MustRegister(Asset{Key: "generic_data", Route: "/raw/generic_data", LogicalPath: "generic_data", Raw: true, Description: "unprocessed generic game data"})
}

func init() {
	MustRegister(Asset{Key: "colors_data", Route: "/v1/colors", LogicalPath: "colors_data", Description: "ui color palette"})
	MustRegister(Asset{Key: "map_data", Route: "/v1/map", LogicalPath: "map_data", Description: "map layout and objectives"})
	MustRegister(Asset{Key: "steam_info", Route: "/v1/steam-info", LogicalPath: "steam_info", Description: "steam build information"})
	MustRegister(Asset{Key: "icons_data", Route: "/v1/icons", LogicalPath: "icons_data", Description: "icon urls"})
	MustRegister(Asset{Key: "sounds_data", Route: "/v1/sounds", LogicalPath: "sounds_data", Description: "sound urls"})
}

func init() {
	MustRegister(Asset{Key: "heroes", Route: "/v2/heroes", LogicalPath: "heroes", Localized: true, Description: "heroes"})
	MustRegister(Asset{Key: "items", Route: "/v2/items", LogicalPath: "items", Localized: true, Description: "items, abilities and weapons"})
	MustRegister(Asset{Key: "ranks", Route: "/v2/ranks", LogicalPath: "ranks", Localized: true, Description: "ranked tiers"})
}

// Heroes 与 Items 供路由层的过滤接口使用。
func Heroes() Asset {
	asset, _ := Resolve("heroes")
	return asset
}

func Items() Asset {
	asset, _ := Resolve("items")
	return asset
}
