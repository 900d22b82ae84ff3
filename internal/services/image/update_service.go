package image

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/noven-dev/image-vault/cache"
	"github.com/noven-dev/image-vault/internal/apperr"
	"github.com/noven-dev/image-vault/metadata"
)

// UpdateParams 部分字段更新，nil 表示不改动
type UpdateParams struct {
	Title       *string
	Description *string
	Tags        []metadata.Tag
	LockFile    *bool
}

// UpdateService 字段更新服务
// 存储层在单键事务内完成锁检查与合并；读改写竞态（并发更新与删除
// 同一 imageId）在单键粒度之外仍然存在，尚未用乐观并发令牌封闭
type UpdateService struct {
	store       metadata.Store
	cacheHelper *cache.Helper
	metaTimeout time.Duration
}

// NewUpdateService 创建更新服务
func NewUpdateService(store metadata.Store, cacheHelper *cache.Helper, metaTimeout time.Duration) *UpdateService {
	return &UpdateService{
		store:       store,
		cacheHelper: cacheHelper,
		metaTimeout: metaTimeout,
	}
}

// Update 合并部分字段并加盖修改时间，锁定的记录拒绝更新
func (s *UpdateService) Update(ctx context.Context, imageID string, params UpdateParams) (*metadata.Record, error) {
	fields := make(map[string]interface{})
	if params.Title != nil {
		fields["title"] = *params.Title
	}
	if params.Description != nil {
		fields["description"] = *params.Description
	}
	if params.Tags != nil {
		fields["tags"] = params.Tags
	}
	if params.LockFile != nil {
		fields["lockFile"] = *params.LockFile
	}

	updateCtx, cancel := context.WithTimeout(ctx, s.metaTimeout)
	defer cancel()

	updated, err := s.store.UpdateFields(updateCtx, imageID, fields)
	if err != nil {
		switch {
		case errors.Is(err, metadata.ErrNotFound):
			return nil, apperr.New(apperr.KindNotFound, "META_NOT_FOUND", "Metadata not found")
		case errors.Is(err, metadata.ErrLocked):
			return nil, apperr.New(apperr.KindLocked, "LOCKED",
				"Metadata is locked and cannot be updated")
		default:
			return nil, apperr.Wrap(apperr.KindUpstream, "META_UPDATE_FAILED",
				"Failed to update metadata", err)
		}
	}

	if err := s.cacheHelper.DeleteCachedRecord(ctx, imageID); err != nil {
		log.Printf("Failed to invalidate cache for record '%s': %v", imageID, err)
	}

	return updated, nil
}
