package routes

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/deadlock-api/assets-api/internal/cache"
	"github.com/deadlock-api/assets-api/internal/edge"
	"github.com/deadlock-api/assets-api/internal/logging"
	"github.com/deadlock-api/assets-api/internal/origin"
	"github.com/deadlock-api/assets-api/internal/ratelimit"
	"github.com/deadlock-api/assets-api/internal/resolver"
	"github.com/deadlock-api/assets-api/internal/server"
)

const testHeroes = `[
  {"id":1,"name":"Abrams","class_name":"hero_atlas"},
  {"id":6,"name":"Bebop","class_name":"hero_bebop"}
]`

const testItems = `[
  {"id":10,"class_name":"citadel_weapon_abrams","type":"weapon","heroes":[1]},
  {"id":11,"class_name":"citadel_ability_dash","type":"ability","heroes":[1,6]},
  {"id":12,"class_name":"ability_charged_tackle","type":"ability","heroes":[1]},
  {"id":13,"class_name":"upgrade_sprint_booster","type":"upgrade","heroes":[]}
]`

type memoryOrigin struct {
	mu      sync.Mutex
	objects map[string]string
	calls   atomic.Int32
}

func (o *memoryOrigin) Get(ctx context.Context, key string) ([]byte, error) {
	o.calls.Add(1)
	o.mu.Lock()
	defer o.mu.Unlock()
	body, ok := o.objects[key]
	if !ok {
		return nil, origin.ErrNotFound
	}
	return []byte(body), nil
}

// countingStore 统计快速缓存与边缘缓存的访问次数。
type countingStore struct {
	*cache.MemoryStore
	gets atomic.Int32
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.gets.Add(1)
	return s.MemoryStore.Get(ctx, key)
}

type testServer struct {
	app    *fiber.App
	origin *memoryOrigin
	fast   *countingStore
	edge   *countingStore
	writer *cache.Writer
}

func newTestServer(t *testing.T, objects map[string]string, limiter ratelimit.Limiter) *testServer {
	t.Helper()

	org := &memoryOrigin{objects: objects}
	fast := &countingStore{MemoryStore: cache.NewMemoryStore()}
	edgeStore := &countingStore{MemoryStore: cache.NewMemoryStore()}
	writer := cache.NewWriter(cache.WriterOptions{Workers: 2, QueueSize: 32, Timeout: time.Second})
	t.Cleanup(func() { _ = writer.Close(context.Background()) })

	tiered := resolver.NewTiered(resolver.Options{
		Fast:   fast,
		Origin: org,
		Writer: writer,
		Prefix: "assets-api-data",
	})
	pipeline := server.NewPipeline(server.PipelineOptions{
		Versions: resolver.NewVersionResolver(tiered),
		Edge:     edge.NewCache(edgeStore, time.Hour),
		Writer:   writer,
	})

	app, err := server.NewApp(server.AppOptions{Logger: logging.Discard(), Limiter: limiter, ListenPort: 3000})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	Register(app, Deps{Tiered: tiered, Pipeline: pipeline})
	RegisterDiagnosticsRoutes(app, StatusSource{Backends: map[string]string{"origin": "memory"}, Writer: writer})

	return &testServer{app: app, origin: org, fast: fast, edge: edgeStore, writer: writer}
}

func (s *testServer) get(t *testing.T, target string) (int, string, map[string]string) {
	t.Helper()
	resp, err := s.app.Test(httptest.NewRequest("GET", target, nil))
	if err != nil {
		t.Fatalf("%s: app.Test failed: %v", target, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	headers := map[string]string{
		"Content-Type":         resp.Header.Get("Content-Type"),
		"Cache-Control":        resp.Header.Get("Cache-Control"),
		edge.HeaderCacheStatus: resp.Header.Get(edge.HeaderCacheStatus),
	}
	return resp.StatusCode, string(body), headers
}

func defaultObjects() map[string]string {
	return map[string]string{
		"assets-api-data/latest_version.txt":                "100\n",
		"assets-api-data/versions/100/heroes/english.json": testHeroes,
		"assets-api-data/versions/100/items/english.json":  testItems,
		"assets-api-data/versions/100/heroes/german.json":  `[{"id":1,"name":"Abrams (de)","class_name":"hero_atlas"}]`,
		"assets-api-data/versions/100/colors_data.json":    `{"red":"#f00"}`,
		"assets-api-data/versions/100/raw_heroes.json":     "heroes { key = value }",
		"assets-api-data/versions/100/map_data.json":       "",
		"assets-api-data/versions/42/heroes/english.json":  `[{"id":1,"name":"Abrams"}]`,
		"assets-api-data/client_versions.json":             `[5902,5903]`,
	}
}

func waitForWriter(t *testing.T, w *cache.Writer, completed int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for w.Stats().Completed < completed {
		if time.Now().After(deadline) {
			t.Fatalf("background writes did not finish: %+v", w.Stats())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
