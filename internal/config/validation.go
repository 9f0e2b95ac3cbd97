package config

import (
	"errors"
	"net/url"
	"strings"
)

// 各层级支持的后端类型。
const (
	BackendS3     = "s3"
	BackendFS     = "fs"
	BackendRedis  = "redis"
	BackendBolt   = "bolt"
	BackendDisk   = "disk"
	BackendMemory = "memory"
	BackendNone   = "none"
)

var (
	originBackends    = []string{BackendS3, BackendFS}
	fastCacheBackends = []string{BackendRedis, BackendBolt, BackendMemory}
	edgeCacheBackends = []string{BackendDisk, BackendRedis, BackendBolt, BackendMemory, BackendNone}
	rateLimitBackends = []string{BackendMemory, BackendRedis}
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	if g.CacheTTL.DurationValue() <= 0 {
		return newFieldError("Global.CacheTTL", "必须大于 0")
	}
	if g.EdgeMaxAge.DurationValue() <= 0 {
		return newFieldError("Global.EdgeMaxAge", "必须大于 0")
	}
	if strings.Contains(g.KeyPrefix, " ") {
		return newFieldError("Global.KeyPrefix", "不允许包含空格")
	}

	if err := c.validateOrigin(); err != nil {
		return err
	}
	if err := validateCacheSection("FastCache", c.FastCache.Backend, fastCacheBackends, c.FastCache.Path, c.FastCache.RedisConfig); err != nil {
		return err
	}
	if err := validateCacheSection("EdgeCache", c.EdgeCache.Backend, edgeCacheBackends, c.EdgeCache.Path, c.EdgeCache.RedisConfig); err != nil {
		return err
	}
	if c.FastCache.Backend == BackendBolt && c.EdgeCache.Backend == BackendBolt && c.FastCache.Path == c.EdgeCache.Path {
		return newFieldError(sectionField("EdgeCache", "Path"), "不能与 FastCache.Path 指向同一个 bolt 文件")
	}
	if err := c.validateRateLimit(); err != nil {
		return err
	}

	b := c.Background
	if b.Workers <= 0 {
		return newFieldError("Background.Workers", "必须大于 0")
	}
	if b.QueueSize <= 0 {
		return newFieldError("Background.QueueSize", "必须大于 0")
	}
	if b.Timeout.DurationValue() <= 0 {
		return newFieldError("Background.Timeout", "必须大于 0")
	}

	return nil
}

func (c *Config) validateOrigin() error {
	o := c.Origin
	if !oneOf(o.Backend, originBackends) {
		return newFieldError(sectionField("Origin", "Backend"), "仅支持 "+strings.Join(originBackends, "|"))
	}
	if o.Timeout.DurationValue() <= 0 {
		return newFieldError(sectionField("Origin", "Timeout"), "必须大于 0")
	}

	switch o.Backend {
	case BackendFS:
		if strings.TrimSpace(o.Root) == "" {
			return newFieldError(sectionField("Origin", "Root"), "fs 后端必须指定目录")
		}
	case BackendS3:
		if err := validateEndpoint(o.Endpoint); err != nil {
			return newFieldError(sectionField("Origin", "Endpoint"), err.Error())
		}
		if strings.TrimSpace(o.Bucket) == "" {
			return newFieldError(sectionField("Origin", "Bucket"), "不能为空")
		}
		if (o.AccessKey == "") != (o.SecretKey == "") {
			return newFieldError(sectionField("Origin", "AccessKey/SecretKey"), "必须同时提供或同时留空")
		}
	}
	return nil
}

func (c *Config) validateRateLimit() error {
	r := c.RateLimit
	if !r.Enabled {
		return nil
	}
	if !oneOf(r.Backend, rateLimitBackends) {
		return newFieldError(sectionField("RateLimit", "Backend"), "仅支持 "+strings.Join(rateLimitBackends, "|"))
	}
	if r.Limit <= 0 {
		return newFieldError(sectionField("RateLimit", "Limit"), "必须大于 0")
	}
	if r.Window.DurationValue() <= 0 {
		return newFieldError(sectionField("RateLimit", "Window"), "必须大于 0")
	}
	if r.Backend == BackendMemory {
		if r.CleanupInterval.DurationValue() <= 0 {
			return newFieldError(sectionField("RateLimit", "CleanupInterval"), "必须大于 0")
		}
		if r.IdleTTL.DurationValue() <= 0 {
			return newFieldError(sectionField("RateLimit", "IdleTTL"), "必须大于 0")
		}
	}
	if r.Backend == BackendRedis && strings.TrimSpace(r.Addr) == "" {
		return newFieldError(sectionField("RateLimit", "Addr"), "redis 后端必须指定地址")
	}
	return nil
}

func validateCacheSection(section, backend string, allowed []string, path string, redis RedisConfig) error {
	if !oneOf(backend, allowed) {
		return newFieldError(sectionField(section, "Backend"), "仅支持 "+strings.Join(allowed, "|"))
	}
	switch backend {
	case BackendRedis:
		if strings.TrimSpace(redis.Addr) == "" {
			return newFieldError(sectionField(section, "Addr"), "redis 后端必须指定地址")
		}
		if redis.DB < 0 {
			return newFieldError(sectionField(section, "DB"), "不能为负数")
		}
	case BackendBolt, BackendDisk:
		if strings.TrimSpace(path) == "" {
			return newFieldError(sectionField(section, "Path"), backend+" 后端必须指定路径")
		}
	}
	return nil
}

// validateEndpoint 接受 host[:port] 或带 http/https 协议头的地址。
func validateEndpoint(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("缺少对象存储地址")
	}
	if strings.Contains(raw, " ") {
		return errors.New("地址不允许包含空格")
	}
	if !strings.Contains(raw, "://") {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("仅支持 http/https")
	}
	if parsed.Host == "" {
		return errors.New("地址缺少 Host")
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}
