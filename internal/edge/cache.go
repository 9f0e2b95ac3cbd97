package edge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deadlock-api/assets-api/internal/cache"
)

// DefaultMaxAge 同时用作 Cache-Control max-age 与边缘条目有效期。
const DefaultMaxAge = 604800 * time.Second

// Response 是一份可重放的响应快照。
type Response struct {
	Status int               `json:"status"`
	Header map[string]string `json:"header,omitempty"`
	Body   []byte            `json:"body"`
}

// Cache 把 Response 编码后存入任意 cache.Store。
type Cache struct {
	store cache.Store
	ttl   time.Duration
}

// NewCache 以 ttl 作为条目有效期，ttl <= 0 时使用 DefaultMaxAge。
func NewCache(store cache.Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultMaxAge
	}
	return &Cache{store: store, ttl: ttl}
}

// Match 返回缓存的响应；未命中时 ok 为 false 且 err 为空。
func (c *Cache) Match(ctx context.Context, key string) (*Response, bool, error) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, fmt.Errorf("decode edge entry: %w", err)
	}
	if resp.Status == 0 {
		return nil, false, errors.New("decode edge entry: missing status")
	}
	return &resp, true, nil
}

// Put 整体写入一份响应快照。
func (c *Cache) Put(ctx context.Context, key string, resp *Response) error {
	if resp == nil {
		return errors.New("nil response")
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.store.Put(ctx, key, raw, c.ttl)
}
