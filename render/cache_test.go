// ABOUTME: Tests for the render cache covering hits, expiry, error passthrough, and concurrency.
// ABOUTME: Uses a fake render function so no graphviz binary is needed.
package render

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeRenderer counts invocations and returns fixed output.
type fakeRenderer struct {
	callCount atomic.Int64
	output    []byte
	err       error
}

func (f *fakeRenderer) render(ctx context.Context, dotText string, format string) ([]byte, error) {
	f.callCount.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func TestCacheReturnsCachedResult(t *testing.T) {
	renderer := &fakeRenderer{output: []byte("<svg>wiring</svg>")}
	cache := NewCache(renderer.render, 5*time.Minute)

	dotText := "digraph wiring { A -> B; }"
	ctx := context.Background()

	data1, err := cache.DOT(ctx, dotText, "svg")
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if string(data1) != "<svg>wiring</svg>" {
		t.Errorf("unexpected render output: %s", data1)
	}
	if renderer.callCount.Load() != 1 {
		t.Errorf("expected 1 renderer call, got %d", renderer.callCount.Load())
	}

	data2, err := cache.DOT(ctx, dotText, "svg")
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if string(data2) != "<svg>wiring</svg>" {
		t.Errorf("unexpected cached output: %s", data2)
	}
	if renderer.callCount.Load() != 1 {
		t.Errorf("expected cached hit to skip the renderer, got %d calls", renderer.callCount.Load())
	}
}

func TestCacheKeysOnFormatAndContent(t *testing.T) {
	renderer := &fakeRenderer{output: []byte("out")}
	cache := NewCache(renderer.render, 5*time.Minute)
	ctx := context.Background()

	cache.DOT(ctx, "digraph g { a }", "svg")
	cache.DOT(ctx, "digraph g { a }", "png")
	cache.DOT(ctx, "digraph g { b }", "svg")

	if renderer.callCount.Load() != 3 {
		t.Errorf("expected 3 renderer calls for distinct keys, got %d", renderer.callCount.Load())
	}
	if cache.Len() != 3 {
		t.Errorf("expected 3 cache entries, got %d", cache.Len())
	}
}

func TestCacheExpiresEntries(t *testing.T) {
	renderer := &fakeRenderer{output: []byte("out")}
	cache := NewCache(renderer.render, 10*time.Millisecond)
	ctx := context.Background()

	cache.DOT(ctx, "digraph g { a }", "svg")
	time.Sleep(20 * time.Millisecond)
	cache.DOT(ctx, "digraph g { a }", "svg")

	if renderer.callCount.Load() != 2 {
		t.Errorf("expected expired entry to re-render, got %d calls", renderer.callCount.Load())
	}
}

func TestCacheDoesNotCacheErrors(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("dot exploded")}
	cache := NewCache(renderer.render, 5*time.Minute)
	ctx := context.Background()

	if _, err := cache.DOT(ctx, "digraph g { a }", "svg"); err == nil {
		t.Fatal("expected render error")
	}
	if cache.Len() != 0 {
		t.Errorf("expected errors to stay uncached, got %d entries", cache.Len())
	}

	renderer.err = nil
	renderer.output = []byte("recovered")
	data, err := cache.DOT(ctx, "digraph g { a }", "svg")
	if err != nil {
		t.Fatalf("render after recovery failed: %v", err)
	}
	if string(data) != "recovered" {
		t.Errorf("unexpected output after recovery: %s", data)
	}
}

func TestCacheClear(t *testing.T) {
	renderer := &fakeRenderer{output: []byte("out")}
	cache := NewCache(renderer.render, 5*time.Minute)
	ctx := context.Background()

	cache.DOT(ctx, "digraph g { a }", "svg")
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d entries", cache.Len())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	renderer := &fakeRenderer{output: []byte("out")}
	cache := NewCache(renderer.render, 5*time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := cache.DOT(ctx, "digraph g { a -> b }", "svg"); err != nil {
					t.Errorf("concurrent render failed: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if cache.Len() != 1 {
		t.Errorf("expected a single entry for identical requests, got %d", cache.Len())
	}
}
