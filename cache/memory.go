package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgraph-io/ristretto"
)

// memoryCache 基于 ristretto 的进程内缓存实现
type memoryCache struct {
	client *ristretto.Cache
}

// MemoryConfig 内存缓存配置
type MemoryConfig struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

// NewMemoryCache 创建新的内存缓存提供者
func NewMemoryCache(cfg MemoryConfig) (Provider, error) {
	if cfg.NumCounters == 0 {
		cfg.NumCounters = 1000000
	}
	if cfg.MaxCost == 0 {
		cfg.MaxCost = 268435456 // 256MB
	}
	if cfg.BufferItems == 0 {
		cfg.BufferItems = 64
	}

	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}

	return &memoryCache{client: client}, nil
}

// Set 设置缓存项
func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	set := m.client.SetWithTTL(key, data, int64(len(data)), expiration)
	if set {
		// 等待值被实际设置
		m.client.Wait()
	}
	return nil
}

// Get 获取缓存项
func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	value, found := m.client.Get(key)
	if !found {
		return ErrCacheMiss
	}

	data, ok := value.([]byte)
	if !ok {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return ErrCacheMiss
	}
	return nil
}

// Delete 删除缓存项
func (m *memoryCache) Delete(ctx context.Context, key string) error {
	m.client.Del(key)
	return nil
}

// Exists 检查缓存项是否存在
func (m *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, found := m.client.Get(key)
	return found, nil
}

// Close 关闭缓存
func (m *memoryCache) Close() error {
	m.client.Close()
	return nil
}

// Name 返回缓存提供者名称
func (m *memoryCache) Name() string {
	return "memory"
}
