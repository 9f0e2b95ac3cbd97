package content

import (
	"strings"
)

// DefaultLanguage 是未指定 language 时使用的语言。
const DefaultLanguage = "english"

// LatestVersionName 是 latest 版本指针对象的静态键。
const LatestVersionName = "latest_version.txt"

// Key 唯一标识一个资源文档。字段不导出，构造后不可修改，可直接用 == 比较。
type Key struct {
	version  string
	path     string
	language string
	static   string
}

// Versioned 构造仅带版本的键，例如 versions/100/colors_data.json。
func Versioned(version, logicalPath string) Key {
	return Key{version: version, path: cleanPath(logicalPath)}
}

// Localized 构造带语言的键，例如 versions/100/heroes/english.json。
func Localized(version, logicalPath, language string) Key {
	return Key{version: version, path: cleanPath(logicalPath), language: language}
}

// Static 构造不随版本变化的键，name 原样作为对象名（需自带扩展名）。
func Static(name string) Key {
	return Key{static: cleanPath(name)}
}

// LatestVersion 返回 latest 版本指针的键。
func LatestVersion() Key {
	return Static(LatestVersionName)
}

func (k Key) Version() string     { return k.version }
func (k Key) LogicalPath() string { return k.path }
func (k Key) Language() string    { return k.language }

// String 返回去掉 bucket 前缀的对象路径。
func (k Key) String() string {
	if k.static != "" {
		return k.static
	}
	var b strings.Builder
	b.Grow(len("versions/") + len(k.version) + len(k.path) + len(k.language) + 7)
	b.WriteString("versions/")
	b.WriteString(k.version)
	b.WriteByte('/')
	b.WriteString(k.path)
	if k.language != "" {
		b.WriteByte('/')
		b.WriteString(k.language)
	}
	b.WriteString(".json")
	return b.String()
}

// StorageKey 在对象路径前拼接 bucket 前缀；prefix 为空时直接返回 String()。
func (k Key) StorageKey(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return k.String()
	}
	return prefix + "/" + k.String()
}

func cleanPath(p string) string {
	return strings.Trim(strings.TrimSpace(p), "/")
}
