package cache

import (
	"context"
	"testing"
	"time"

	"github.com/yeisme/filevault/pkg/internal/storage/kv"
)

type linkMeta struct {
	Owner     string `json:"owner"`
	ObjectKey string `json:"object_key"`
	Name      string `json:"name"`
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	store, err := kv.NewMemoryKV(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewMemoryKV: %v", err)
	}

	return NewCache(store)
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	want := linkMeta{Owner: "alice@example.com", ObjectKey: "user-alice@example.com-files/objects/k1", Name: "report.pdf"}

	if err := Set(ctx, c, "link:abc", want, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := Get[linkMeta](ctx, c, "link:abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if err := c.Delete(ctx, "link:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := Get[linkMeta](ctx, c, "link:abc"); err == nil {
		t.Fatal("expected miss after delete")
	}
}

func TestCacheGetOrSet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	calls := 0
	getter := func() (linkMeta, error) {
		calls++
		return linkMeta{Name: "notes.txt"}, nil
	}

	got, err := GetOrSet(ctx, c, "link:x", getter, time.Minute)
	if err != nil || got.Name != "notes.txt" {
		t.Fatalf("first GetOrSet: %+v, %v", got, err)
	}

	got, err = GetOrSet(ctx, c, "link:x", getter, time.Minute)
	if err != nil || got.Name != "notes.txt" {
		t.Fatalf("second GetOrSet: %+v, %v", got, err)
	}

	if calls != 1 {
		t.Fatalf("getter called %d times, want 1", calls)
	}
}
