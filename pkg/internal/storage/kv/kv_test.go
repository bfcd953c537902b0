package kv

import (
	"context"
	"testing"
	"time"
)

func TestMemoryKVSetGet(t *testing.T) {
	ctx := context.Background()

	store, err := NewMemoryKV(ctx, nil)
	if err != nil {
		t.Fatalf("NewMemoryKV: %v", err)
	}

	if err := store.Set(ctx, "link:abc", []byte(`{"file_id":1}`), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, "link:abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if string(got) != `{"file_id":1}` {
		t.Fatalf("got %q", got)
	}

	exists, err := store.Exists(ctx, "link:abc")
	if err != nil || !exists {
		t.Fatalf("Exists = %v, %v", exists, err)
	}
}

func TestMemoryKVTTLExpiry(t *testing.T) {
	ctx := context.Background()

	store, err := NewMemoryKV(ctx, nil)
	if err != nil {
		t.Fatalf("NewMemoryKV: %v", err)
	}

	// 已过期的值应在读取时被清理
	if err := store.Set(ctx, "k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, err := store.Get(ctx, "k"); err != nil {
		t.Fatalf("zero/negative ttl means no expiry, got %v", err)
	}

	encoded, err := encodeWithTTL([]byte("v"), time.Second)
	if err != nil {
		t.Fatalf("encodeWithTTL: %v", err)
	}

	got, expired, err := decodeWithTTL(encoded, time.Now().Add(2*time.Second))
	if err != nil {
		t.Fatalf("decodeWithTTL: %v", err)
	}

	if !expired || got != nil {
		t.Fatalf("expected expired value, got %q expired=%v", got, expired)
	}

	got, expired, err = decodeWithTTL(encoded, time.Now())
	if err != nil || expired {
		t.Fatalf("unexpired value reported expired: %v, %v", expired, err)
	}

	if string(got) != "v" {
		t.Fatalf("got %q", got)
	}
}

func TestMemoryKVDelete(t *testing.T) {
	ctx := context.Background()

	store, err := NewMemoryKV(ctx, nil)
	if err != nil {
		t.Fatalf("NewMemoryKV: %v", err)
	}

	if err := store.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := store.Get(ctx, "k"); err == nil {
		t.Fatal("expected error after delete")
	}

	// 删除不存在的键不报错
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}
