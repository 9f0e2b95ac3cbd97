package ratelimit

import (
	"context"
	"time"
)

// Decision 是一次准入判断的结果，核心流程不持久化它。
type Decision struct {
	Key     string
	Allowed bool
	// RetryAfter 是被拒绝时建议的等待时间，0 表示无建议。
	RetryAfter time.Duration
}

// Limiter 对 key 做一次准入判断。
type Limiter interface {
	Limit(ctx context.Context, key string) (Decision, error)
}
