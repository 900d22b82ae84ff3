package images

import (
	"time"

	"github.com/noven-dev/image-vault/cache"
	"github.com/noven-dev/image-vault/config"
	"github.com/noven-dev/image-vault/internal/services/image"
	"github.com/noven-dev/image-vault/metadata"
	"github.com/noven-dev/image-vault/storage"
)

// Handler 图片处理器
type Handler struct {
	uploadService *image.UploadService
	deleteService *image.DeleteService
	queryService  *image.QueryService
	updateService *image.UpdateService
	provider      storage.Provider
}

// NewHandler 创建图片处理器并装配服务
func NewHandler(store metadata.Store, provider storage.Provider, cacheProvider cache.Provider, cfg *config.Config) *Handler {
	cacheHelper := cache.NewHelper(cacheProvider, time.Duration(cfg.CacheRecordTTL)*time.Second)

	return &Handler{
		uploadService: image.NewUploadService(store, provider, cfg.BaseURL(), cfg.StorageOpTimeout, cfg.MetadataOpTimeout),
		deleteService: image.NewDeleteService(store, provider, cacheHelper, cfg.StorageOpTimeout, cfg.MetadataOpTimeout),
		queryService:  image.NewQueryService(store, cacheHelper, cfg.MetadataOpTimeout),
		updateService: image.NewUpdateService(store, cacheHelper, cfg.MetadataOpTimeout),
		provider:      provider,
	}
}
