package resolver

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deadlock-api/assets-api/internal/cache"
	"github.com/deadlock-api/assets-api/internal/origin"
)

// memoryOrigin 记录每个键的访问次数，可注入错误。
type memoryOrigin struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
	calls   atomic.Int32
}

func newMemoryOrigin(objects map[string]string) *memoryOrigin {
	o := &memoryOrigin{objects: map[string][]byte{}}
	for k, v := range objects {
		o.objects[k] = []byte(v)
	}
	return o
}

func (o *memoryOrigin) Get(ctx context.Context, key string) ([]byte, error) {
	o.calls.Add(1)
	if o.err != nil {
		return nil, o.err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	body, ok := o.objects[key]
	if !ok {
		return nil, origin.ErrNotFound
	}
	return append([]byte(nil), body...), nil
}

func (o *memoryOrigin) set(key, value string) {
	o.mu.Lock()
	o.objects[key] = []byte(value)
	o.mu.Unlock()
}

// slowStore 让 Put 阻塞到 release 关闭，用来验证回填不阻塞响应。
type slowStore struct {
	*cache.MemoryStore
	release chan struct{}
	puts    atomic.Int32
}

func (s *slowStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	<-s.release
	s.puts.Add(1)
	return s.MemoryStore.Put(ctx, key, value, ttl)
}

// brokenStore 模拟快速缓存不可用。
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) {
	return nil, context.DeadlineExceeded
}

func (brokenStore) Put(context.Context, string, []byte, time.Duration) error {
	return context.DeadlineExceeded
}

func newTestWriter(t *testing.T) *cache.Writer {
	t.Helper()
	w := cache.NewWriter(cache.WriterOptions{Workers: 2, QueueSize: 16, Timeout: time.Second})
	t.Cleanup(func() { _ = w.Close(context.Background()) })
	return w
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}
