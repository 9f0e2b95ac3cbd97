package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var globalRegistry = newRegistry()

type registry struct {
	mu     sync.RWMutex
	assets map[string]Asset
	routes map[string]string
}

func newRegistry() *registry {
	return &registry{
		assets: make(map[string]Asset),
		routes: make(map[string]string),
	}
}

// Register 将资源加入全局清单，重复的键或路由会返回错误。
func Register(asset Asset) error {
	return globalRegistry.register(asset)
}

// MustRegister 在注册失败时 panic，适合 init() 中调用。
func MustRegister(asset Asset) {
	if err := Register(asset); err != nil {
		panic(err)
	}
}

// Resolve 返回指定键的资源。
func Resolve(key string) (Asset, bool) {
	return globalRegistry.resolve(key)
}

// List 返回按键排序的资源列表。
func List() []Asset {
	return globalRegistry.list()
}

// Keys 返回所有已注册资源的键，供诊断使用。
func Keys() []string {
	items := List()
	result := make([]string, len(items))
	for i, asset := range items {
		result[i] = asset.Key
	}
	return result
}

func (r *registry) normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func (r *registry) register(asset Asset) error {
	key := r.normalizeKey(asset.Key)
	if key == "" {
		return fmt.Errorf("asset key is required")
	}
	if asset.LogicalPath == "" {
		return fmt.Errorf("asset %s: logical path is required", key)
	}
	if !strings.HasPrefix(asset.Route, "/") {
		return fmt.Errorf("asset %s: route must start with /", key)
	}
	asset.Key = key

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assets[key]; exists {
		return fmt.Errorf("asset %s already registered", key)
	}
	if owner, exists := r.routes[asset.Route]; exists {
		return fmt.Errorf("route %s already served by %s", asset.Route, owner)
	}
	r.assets[key] = asset
	r.routes[asset.Route] = key
	return nil
}

func (r *registry) resolve(key string) (Asset, bool) {
	if key == "" {
		return Asset{}, false
	}
	normalized := r.normalizeKey(key)

	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, ok := r.assets[normalized]
	return asset, ok
}

func (r *registry) list() []Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.assets) == 0 {
		return nil
	}

	keys := make([]string, 0, len(r.assets))
	for key := range r.assets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]Asset, 0, len(keys))
	for _, key := range keys {
		result = append(result, r.assets[key])
	}
	return result
}
