package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DefaultCacheTTL 是快速缓存条目的固定存活时间（7 天）。
const DefaultCacheTTL = 7 * 24 * time.Hour

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	if err := rejectLegacyKeys(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := absolutizePaths(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 3000)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("KeyPrefix", "assets-api-data")
	v.SetDefault("CacheTTL", "168h")
	v.SetDefault("EdgeMaxAge", 604800)
	v.SetDefault("TrustProxy", false)

	v.SetDefault("Origin.Backend", BackendS3)
	v.SetDefault("Origin.UseSSL", true)
	v.SetDefault("Origin.Timeout", "30s")

	v.SetDefault("FastCache.Backend", BackendMemory)
	v.SetDefault("EdgeCache.Backend", BackendMemory)

	v.SetDefault("RateLimit.Enabled", true)
	v.SetDefault("RateLimit.Backend", BackendMemory)
	v.SetDefault("RateLimit.Limit", 100)
	v.SetDefault("RateLimit.Window", "10s")
	v.SetDefault("RateLimit.CleanupInterval", "2m")
	v.SetDefault("RateLimit.IdleTTL", "15m")

	v.SetDefault("Background.Workers", 4)
	v.SetDefault("Background.QueueSize", 1024)
	v.SetDefault("Background.Timeout", "10s")
}

func applyDefaults(cfg *Config) {
	g := &cfg.Global
	if g.ListenPort == 0 {
		g.ListenPort = 3000
	}
	if g.CacheTTL.DurationValue() == 0 {
		g.CacheTTL = Duration(DefaultCacheTTL)
	}
	if g.EdgeMaxAge.DurationValue() == 0 {
		g.EdgeMaxAge = Duration(DefaultCacheTTL)
	}
	g.KeyPrefix = strings.Trim(strings.TrimSpace(g.KeyPrefix), "/")

	cfg.Origin.Backend = normalizeBackend(cfg.Origin.Backend)
	cfg.FastCache.Backend = normalizeBackend(cfg.FastCache.Backend)
	cfg.EdgeCache.Backend = normalizeBackend(cfg.EdgeCache.Backend)
	cfg.RateLimit.Backend = normalizeBackend(cfg.RateLimit.Backend)
	r := &cfg.RateLimit
	if r.CleanupInterval.DurationValue() == 0 {
		r.CleanupInterval = Duration(2 * time.Minute)
	}
	if r.IdleTTL.DurationValue() == 0 {
		r.IdleTTL = Duration(15 * time.Minute)
	}
	if cfg.Origin.Timeout.DurationValue() == 0 {
		cfg.Origin.Timeout = Duration(30 * time.Second)
	}

	b := &cfg.Background
	if b.Workers == 0 {
		b.Workers = 4
	}
	if b.QueueSize == 0 {
		b.QueueSize = 1024
	}
	if b.Timeout.DurationValue() == 0 {
		b.Timeout = Duration(10 * time.Second)
	}
}

func normalizeBackend(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func absolutizePaths(cfg *Config) error {
	targets := []struct {
		field string
		value *string
	}{
		{"Origin.Root", &cfg.Origin.Root},
		{"FastCache.Path", &cfg.FastCache.Path},
		{"EdgeCache.Path", &cfg.EdgeCache.Path},
	}
	for _, target := range targets {
		if *target.value == "" {
			continue
		}
		abs, err := filepath.Abs(*target.value)
		if err != nil {
			return fmt.Errorf("无法解析路径 %s: %w", target.field, err)
		}
		*target.value = abs
	}
	return nil
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}

// rejectLegacyKeys 拒绝旧版 Worker 配置中按 binding 名称声明的字段，提示迁移到分节写法。
func rejectLegacyKeys(v *viper.Viper) error {
	legacy := map[string]string{
		"ASSETS_BUCKET": "Origin",
		"ASSETS_KV":     "FastCache",
	}
	for key, section := range legacy {
		if v.IsSet(key) {
			return newFieldError(key, fmt.Sprintf("字段已弃用，请改用 [%s] 分节", section))
		}
	}
	return nil
}
