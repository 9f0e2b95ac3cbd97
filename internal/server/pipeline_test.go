package server

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/deadlock-api/assets-api/internal/cache"
	"github.com/deadlock-api/assets-api/internal/edge"
	"github.com/deadlock-api/assets-api/internal/origin"
	"github.com/deadlock-api/assets-api/internal/resolver"
)

type pointerOrigin struct {
	mu     sync.Mutex
	latest string
}

func (p *pointerOrigin) Get(ctx context.Context, key string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if key == "assets-api-data/latest_version.txt" && p.latest != "" {
		return []byte(p.latest), nil
	}
	return nil, origin.ErrNotFound
}

func (p *pointerOrigin) set(latest string) {
	p.mu.Lock()
	p.latest = latest
	p.mu.Unlock()
}

// newPipelineApp 不配置快速缓存，latest 指针的变化会立即生效。
func newPipelineApp(t *testing.T, org *pointerOrigin, edgeStore cache.Store) *fiber.App {
	t.Helper()
	tiered := resolver.NewTiered(resolver.Options{Origin: org, Prefix: "assets-api-data"})
	opts := PipelineOptions{Versions: resolver.NewVersionResolver(tiered)}
	if edgeStore != nil {
		opts.Edge = edge.NewCache(edgeStore, time.Hour)
	}
	p := NewPipeline(opts)

	app := newTestApp(t, nil)
	app.Get("/echo", p.ResolveVersion, p.ResolveLanguage, p.EdgeCache, func(c fiber.Ctx) error {
		return c.SendString(Version(c) + "/" + Language(c))
	})
	return app
}

func getBody(t *testing.T, app *fiber.App, target string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	if err != nil {
		t.Fatalf("%s: app.Test failed: %v", target, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestPipelineResolvesVersionAndLanguage(t *testing.T) {
	app := newPipelineApp(t, &pointerOrigin{latest: "5902\n"}, nil)

	cases := map[string]string{
		"/echo":                                    "5902/english",
		"/echo?client_version=100":                 "100/english",
		"/echo?client_version=abc&language=german": "5902/german",
		"/echo?language=":                          "5902/english",
	}
	for target, want := range cases {
		if _, body := getBody(t, app, target); body != want {
			t.Fatalf("%s: expected %s, got %s", target, want, body)
		}
	}
}

func TestPipelineMissingLatestPointer(t *testing.T) {
	app := newPipelineApp(t, &pointerOrigin{}, nil)

	status, body := getBody(t, app, "/echo")
	if status != fiber.StatusNotFound || !strings.Contains(body, "latest_version.txt not found") {
		t.Fatalf("unexpected response %d %s", status, body)
	}

	if status, _ := getBody(t, app, "/echo?client_version=7"); status != fiber.StatusOK {
		t.Fatalf("explicit versions must not need the pointer, got %d", status)
	}
}

func TestPipelineEdgeKeyFollowsResolvedVersion(t *testing.T) {
	org := &pointerOrigin{latest: "1"}
	edgeStore := cache.NewMemoryStore()
	app := newPipelineApp(t, org, edgeStore)

	if _, body := getBody(t, app, "/echo"); body != "1/english" {
		t.Fatalf("unexpected body %s", body)
	}
	waitForLen(t, edgeStore, 1)

	org.set("2")
	if _, body := getBody(t, app, "/echo"); body != "2/english" {
		t.Fatalf("new latest version must not reuse the old edge entry, got %s", body)
	}
	waitForLen(t, edgeStore, 2)

	org.set("1")
	if _, body := getBody(t, app, "/echo"); body != "1/english" {
		t.Fatalf("unexpected body %s", body)
	}
}

func waitForLen(t *testing.T, store *cache.MemoryStore, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for store.Len() < n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d edge entries, got %d", n, store.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
