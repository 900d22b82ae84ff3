package image

import (
	"context"
	"errors"
	"log"
	"path"
	"time"

	"github.com/noven-dev/image-vault/cache"
	"github.com/noven-dev/image-vault/internal/apperr"
	"github.com/noven-dev/image-vault/metadata"
	"github.com/noven-dev/image-vault/storage"
)

// DeleteService 负责删除流程：先删资源，后删记录
// 两步之间崩溃只会留下指向空处的记录（可被发现并上报），
// 而不是无人引用、静默堆积的资源字节
type DeleteService struct {
	store          metadata.Store
	provider       storage.Provider
	cacheHelper    *cache.Helper
	storageTimeout time.Duration
	metaTimeout    time.Duration
}

// NewDeleteService 创建删除服务
func NewDeleteService(
	store metadata.Store,
	provider storage.Provider,
	cacheHelper *cache.Helper,
	storageTimeout time.Duration,
	metaTimeout time.Duration,
) *DeleteService {
	return &DeleteService{
		store:          store,
		provider:       provider,
		cacheHelper:    cacheHelper,
		storageTimeout: storageTimeout,
		metaTimeout:    metaTimeout,
	}
}

// Delete 删除一张图片及其元数据，整体可安全重试
func (s *DeleteService) Delete(ctx context.Context, imageID string) error {
	getCtx, cancel := context.WithTimeout(ctx, s.metaTimeout)
	defer cancel()

	record, err := s.store.Get(getCtx, imageID)
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "IMAGE_NOT_FOUND", "Image not found")
		}
		return apperr.Wrap(apperr.KindUpstream, "DELETE_FAILED",
			"Failed to look up image metadata", err)
	}

	// 资源删除在前。此顺序下中途崩溃不会留下指向已消失字节的不可恢复状态
	if record.FileURL != "" {
		assetID := path.Base(record.FileURL)

		delCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
		defer cancel()

		exists, err := s.provider.Exists(delCtx, assetID)
		if err == nil && !exists {
			// 之前某次部分失败的删除可能已经移除了资源
			log.Printf("Asset '%s' already absent from storage, continuing delete", assetID)
		}

		if err := s.provider.DeleteWithContext(delCtx, assetID); err != nil {
			return apperr.Wrap(apperr.KindUpstream, "DELETE_FAILED",
				"Failed to remove image data", err)
		}
	}

	// 记录删除无条件幂等，重试已部分完成的删除不会报错
	metaCtx, cancel := context.WithTimeout(ctx, s.metaTimeout)
	defer cancel()
	if err := s.store.Delete(metaCtx, imageID); err != nil {
		return apperr.Wrap(apperr.KindUpstream, "META_DELETE_FAILED",
			"Image data removed but metadata could not be deleted", err)
	}

	if err := s.cacheHelper.DeleteCachedRecord(ctx, imageID); err != nil {
		log.Printf("Failed to invalidate cache for record '%s': %v", imageID, err)
	}

	return nil
}
