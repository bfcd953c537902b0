package kv

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryKV 基于 sync.Map 的内存 KV 实现，TTL 通过值包装惰性过期.
type MemoryKV struct {
	data sync.Map
}

// NewMemoryKV 创建内存 KV 实例.
func NewMemoryKV(ctx context.Context, config any) (KVStore, error) {
	// 内存实现不需要特殊配置
	return &MemoryKV{}, nil
}

// Get 获取键的值，过期的键在读取时删除.
func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	value, exists := m.data.Load(key)
	if !exists {
		return nil, fmt.Errorf("key not found: %s", key)
	}

	raw, ok := value.([]byte)
	if !ok {
		return nil, fmt.Errorf("invalid value type for key: %s", key)
	}

	data, expired, err := decodeWithTTL(raw, time.Now())
	if err != nil {
		return nil, err
	}

	if expired {
		m.data.Delete(key)

		return nil, fmt.Errorf("key not found: %s", key)
	}

	// 返回副本
	result := make([]byte, len(data))
	copy(result, data)

	return result, nil
}

// Set 设置键的值.
func (m *MemoryKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	encoded, err := encodeWithTTL(value, ttl)
	if err != nil {
		return err
	}

	// 复制值
	data := make([]byte, len(encoded))
	copy(data, encoded)

	m.data.Store(key, data)

	return nil
}

// Delete 删除键.
func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.data.Delete(key)
	return nil
}

// Exists 检查键是否存在.
func (m *MemoryKV) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := m.Get(ctx, key); err != nil {
		return false, nil
	}

	return true, nil
}

// Close 关闭存储（内存实现无需操作）.
func (m *MemoryKV) Close() error {
	return nil
}

func init() {
	RegisterKVFactory(KVTypeMemory, NewMemoryKV)
}
