package cache

import (
	"context"
	"time"

	"github.com/noven-dev/image-vault/metadata"
)

const recordKeyPrefix = "record:"

// Helper 记录缓存辅助层，统一键名和 TTL
type Helper struct {
	provider Provider
	ttl      time.Duration
}

// NewHelper 创建缓存辅助层
func NewHelper(provider Provider, ttl time.Duration) *Helper {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Helper{provider: provider, ttl: ttl}
}

// recordKey 构建记录缓存键
func recordKey(imageID string) string {
	return recordKeyPrefix + imageID
}

// CacheRecord 缓存一条记录
func (h *Helper) CacheRecord(ctx context.Context, record *metadata.Record) error {
	if h == nil || h.provider == nil {
		return nil
	}
	return h.provider.Set(ctx, recordKey(record.ImageID), record, h.ttl)
}

// GetCachedRecord 读取缓存的记录
func (h *Helper) GetCachedRecord(ctx context.Context, imageID string, record *metadata.Record) error {
	if h == nil || h.provider == nil {
		return ErrCacheMiss
	}
	return h.provider.Get(ctx, recordKey(imageID), record)
}

// DeleteCachedRecord 删除缓存的记录
func (h *Helper) DeleteCachedRecord(ctx context.Context, imageID string) error {
	if h == nil || h.provider == nil {
		return nil
	}
	return h.provider.Delete(ctx, recordKey(imageID))
}
