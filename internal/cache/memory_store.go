package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore 是进程内缓存，适用于单实例部署与测试。
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
	now     func() time.Time
}

// NewMemoryStore 创建空的内存缓存，默认使用 time.Now 作为时钟。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]byte),
		now:     time.Now,
	}
}

// WithClock 替换时钟，便于测试过期行为。
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	raw, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	value, expired, err := decodeEntry(raw, s.now())
	if err != nil {
		return nil, err
	}
	if expired {
		s.evictIfExpired(key)
		return nil, ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := encodeEntry(value, ttl, s.now())

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) evictIfExpired(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if raw, ok := s.entries[key]; ok {
		if _, expired, _ := decodeEntry(raw, s.now()); expired {
			delete(s.entries, key)
		}
	}
}

// Len 返回当前条目数（含尚未清理的过期条目）。
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
