// Package cache 提供基于键值存储的泛型缓存实现.
//
// 该包提供类型安全的缓存操作，支持任意类型的缓存值.
// 底层使用 JSON 序列化（bytedance/sonic），支持 TTL 设置.
// 主要用于公开链接解析等读多写少的热点路径.
//
// 基本用法:
//
//	c := cache.NewCache(kvStore)
//
//	err := cache.Set(ctx, c, "link:abc", meta, 5*time.Minute)
//	meta, err := cache.Get[LinkMeta](ctx, c, "link:abc")
//
//	meta, err := cache.GetOrSet(ctx, c, "link:abc", func() (LinkMeta, error) {
//	    return resolveFromDB(link)
//	}, 5*time.Minute)
//
// 缓存未命中通过 error 返回，由调用方回源；序列化错误会被包装返回.
// 线程安全取决于底层 KV 实现.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/yeisme/filevault/pkg/internal/storage/kv"
)

// Cache 基于KV存储的缓存实现.
type Cache struct {
	kvStore kv.KVStore
}

// NewCache 创建一个新的缓存实例.
func NewCache(kvStore kv.KVStore) *Cache {
	return &Cache{
		kvStore: kvStore,
	}
}

// Get 泛型获取缓存值.
func Get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var zero T

	data, err := c.kvStore.Get(ctx, key)
	if err != nil {
		return zero, err
	}

	var value T
	if err := sonic.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return value, nil
}

// Set 泛型设置缓存值.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return c.kvStore.Set(ctx, key, data, ttl)
}

// Delete 删除缓存键.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.kvStore.Delete(ctx, key)
}

// Exists 检查缓存键是否存在.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	return c.kvStore.Exists(ctx, key)
}

// GetOrSet 获取缓存值，如果不存在则回源并设置.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, getter func() (T, error), ttl time.Duration) (T, error) {
	var zero T

	if value, err := Get[T](ctx, c, key); err == nil {
		return value, nil
	}

	value, err := getter()
	if err != nil {
		return zero, err
	}

	if setErr := Set(ctx, c, key, value, ttl); setErr != nil {
		// 缓存失败不影响回源结果
		return value, nil
	}

	return value, nil
}
