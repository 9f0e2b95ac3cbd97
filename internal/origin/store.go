package origin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deadlock-api/assets-api/internal/config"
)

// Store 按完整存储键读取对象。
type Store interface {
	// Get 返回对象的完整内容；对象不存在时返回 ErrNotFound，其余错误原样返回。
	Get(ctx context.Context, key string) ([]byte, error)
}

// ErrNotFound 表示源站中不存在该对象。
var ErrNotFound = errors.New("origin object not found")

// New 依据配置构建源站客户端。
func New(cfg config.OriginConfig) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case config.BackendS3, "":
		return NewS3Store(cfg, NewTransport())
	case config.BackendFS:
		return NewFSStore(cfg.Root)
	default:
		return nil, fmt.Errorf("unsupported origin backend %q", cfg.Backend)
	}
}
