package catalog

import "github.com/deadlock-api/assets-api/internal/content"

// Asset 描述一个资源文档。
type Asset struct {
	// Key 是诊断接口中使用的唯一标识，与 LogicalPath 相同或更短。
	Key string
	// Route 是对外的 GET 路径，例如 /v1/colors。
	Route string
	// LogicalPath 是对象存储中 versions/{v}/ 之后的路径，不含扩展名。
	LogicalPath string
	// Localized 为 true 时对象按语言拆分为 {path}/{language}.json。
	Localized bool
	// Raw 为 true 时不做 JSON 校验，原样透传。
	Raw         bool
	Description string
}

// ContentKey 根据解析出的版本与语言构造对象键，非多语言资源忽略 language。
func (a Asset) ContentKey(version, language string) content.Key {
	if a.Localized {
		return content.Localized(version, a.LogicalPath, language)
	}
	return content.Versioned(version, a.LogicalPath)
}
