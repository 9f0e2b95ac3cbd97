package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"168h" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// GlobalConfig 描述全局运行时行为。
type GlobalConfig struct {
	ListenPort    int      `mapstructure:"ListenPort"`
	LogLevel      string   `mapstructure:"LogLevel"`
	LogFilePath   string   `mapstructure:"LogFilePath"`
	LogMaxSize    int      `mapstructure:"LogMaxSize"`
	LogMaxBackups int      `mapstructure:"LogMaxBackups"`
	LogCompress   bool     `mapstructure:"LogCompress"`
	KeyPrefix     string   `mapstructure:"KeyPrefix"`
	CacheTTL      Duration `mapstructure:"CacheTTL"`
	EdgeMaxAge    Duration `mapstructure:"EdgeMaxAge"`
	TrustProxy    bool     `mapstructure:"TrustProxy"`
}

// RedisConfig 是多个层级共用的 Redis 连接参数。
type RedisConfig struct {
	Addr     string `mapstructure:"Addr"`
	Password string `mapstructure:"Password"`
	DB       int    `mapstructure:"DB"`
}

// OriginConfig 决定源站对象存储的访问方式。
type OriginConfig struct {
	Backend   string   `mapstructure:"Backend"`
	Endpoint  string   `mapstructure:"Endpoint"`
	Bucket    string   `mapstructure:"Bucket"`
	Region    string   `mapstructure:"Region"`
	AccessKey string   `mapstructure:"AccessKey"`
	SecretKey string   `mapstructure:"SecretKey"`
	UseSSL    bool     `mapstructure:"UseSSL"`
	Root      string   `mapstructure:"Root"`
	Timeout   Duration `mapstructure:"Timeout"`
}

// FastCacheConfig 描述 KV 快速缓存层。
type FastCacheConfig struct {
	Backend     string `mapstructure:"Backend"`
	Path        string `mapstructure:"Path"`
	RedisConfig `mapstructure:",squash"`
}

// EdgeCacheConfig 描述完整响应缓存层。
type EdgeCacheConfig struct {
	Backend     string `mapstructure:"Backend"`
	Path        string `mapstructure:"Path"`
	RedisConfig `mapstructure:",squash"`
}

// RateLimitConfig 描述按客户端 IP 的准入控制。
type RateLimitConfig struct {
	Enabled bool     `mapstructure:"Enabled"`
	Backend string   `mapstructure:"Backend"`
	Limit   int      `mapstructure:"Limit"`
	Window  Duration `mapstructure:"Window"`

	// CleanupInterval/IdleTTL 仅作用于 memory 后端：按周期清理闲置超过 IdleTTL 的客户端。
	CleanupInterval Duration `mapstructure:"CleanupInterval"`
	IdleTTL         Duration `mapstructure:"IdleTTL"`

	RedisConfig `mapstructure:",squash"`
}

// BackgroundConfig 控制后台缓存写入的并发与超时。
type BackgroundConfig struct {
	Workers   int      `mapstructure:"Workers"`
	QueueSize int      `mapstructure:"QueueSize"`
	Timeout   Duration `mapstructure:"Timeout"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global     GlobalConfig     `mapstructure:",squash"`
	Origin     OriginConfig     `mapstructure:"Origin"`
	FastCache  FastCacheConfig  `mapstructure:"FastCache"`
	EdgeCache  EdgeCacheConfig  `mapstructure:"EdgeCache"`
	RateLimit  RateLimitConfig  `mapstructure:"RateLimit"`
	Background BackgroundConfig `mapstructure:"Background"`
}

// HasCredentials 表示源站是否配置了完整的访问凭证。
func (o OriginConfig) HasCredentials() bool {
	return o.AccessKey != "" && o.SecretKey != ""
}

// AuthMode 输出 `credentialed` 或 `anonymous`，供日志字段使用。
func (o OriginConfig) AuthMode() string {
	if o.HasCredentials() {
		return "credentialed"
	}
	return "anonymous"
}

// Backends 返回各层级的后端摘要，例如 origin:s3，供启动日志与诊断接口使用。
func (c *Config) Backends() map[string]string {
	if c == nil {
		return nil
	}
	limiter := "disabled"
	if c.RateLimit.Enabled {
		limiter = c.RateLimit.Backend
	}
	return map[string]string{
		"origin":     c.Origin.Backend,
		"fast_cache": c.FastCache.Backend,
		"edge_cache": c.EdgeCache.Backend,
		"rate_limit": limiter,
	}
}
