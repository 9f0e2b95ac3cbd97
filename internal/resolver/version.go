package resolver

import (
	"context"
	"strconv"
	"strings"

	"github.com/deadlock-api/assets-api/internal/content"
)

// VersionResolver 决定请求使用的资源版本。
type VersionResolver struct {
	tiered *Tiered
}

// NewVersionResolver 基于 Tiered 读取 latest 指针。
func NewVersionResolver(tiered *Tiered) *VersionResolver {
	return &VersionResolver{tiered: tiered}
}

// Resolve 在 requested 是非负整数时原样返回，不校验该版本是否存在；
// 否则读取 latest_version.txt 并去除首尾空白，指针缺失或为空时返回 NotFound。
func (r *VersionResolver) Resolve(ctx context.Context, requested string) (string, error) {
	if IsExplicitVersion(requested) {
		return requested, nil
	}

	key := content.LatestVersion()
	text, err := Resolve(ctx, r.tiered, key, content.Text)
	if err != nil {
		if content.IsNotFound(err) || content.IsInternal(err) {
			return "", latestMissing(r.tiered, key)
		}
		return "", err
	}

	version := strings.TrimSpace(text)
	if version == "" {
		return "", latestMissing(r.tiered, key)
	}
	return version, nil
}

// IsExplicitVersion reports whether raw is a non-negative base-10 integer.
func IsExplicitVersion(raw string) bool {
	if raw == "" {
		return false
	}
	_, err := strconv.ParseUint(raw, 10, 64)
	return err == nil
}

func latestMissing(t *Tiered, key content.Key) error {
	return content.NotFound("%s not found", key.StorageKey(t.Prefix()))
}

// ResolveLanguage 返回 requested，空值时回退到 english。
func ResolveLanguage(requested string) string {
	if requested == "" {
		return content.DefaultLanguage
	}
	return requested
}
