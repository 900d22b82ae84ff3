package core

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/noven-dev/image-vault/api/common"
	handlerImages "github.com/noven-dev/image-vault/api/handler/images"
	"github.com/noven-dev/image-vault/api/middleware"
	"github.com/noven-dev/image-vault/config"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, deps *ServerDependencies) {
	registerBasicRoutes(router, deps)
	registerImageRoutes(router, deps)
}

// registerBasicRoutes 注册基础路由
func registerBasicRoutes(router *gin.Engine, deps *ServerDependencies) {
	router.GET("/health", func(context *gin.Context) {
		health := gin.H{
			"status":  "ok",
			"uptime":  time.Since(startTime).Round(time.Second).String(),
			"version": config.Version,
			"checks": gin.H{
				"metadata": checkMetadataHealth(deps.MetadataStore),
				"cache":    checkCacheHealth(deps.CacheProvider),
				"storage":  checkStorageHealth(deps.StorageFactory),
			},
		}
		httpStatus := http.StatusOK
		for _, checkResult := range health["checks"].(gin.H) {
			if result, ok := checkResult.(string); ok && result != "ok" {
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}
		context.JSON(httpStatus, health)
	})

	router.GET("/version", func(context *gin.Context) {
		common.RespondSuccess(context, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})
}

// registerImageRoutes 注册图片路由
func registerImageRoutes(router *gin.Engine, deps *ServerDependencies) {
	cfg := config.Get()

	imageHandler := handlerImages.NewHandler(deps.MetadataStore, deps.StorageFactory.GetDefault(), deps.CacheProvider, cfg)

	apiRateLimiter := middleware.NewPerClientRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst)
	fileRateLimiter := middleware.NewPerClientRateLimiter(cfg.RateLimitImageRPS, cfg.RateLimitImageBurst)

	apiGroup := router.Group("/api")
	apiGroup.Use(func(context *gin.Context) { // API 响应禁止缓存
		context.Header("Cache-Control", "no-store")
		context.Next()
	})
	{
		imagesGroup := apiGroup.Group("/images")
		imagesGroup.Use(apiRateLimiter.Middleware())
		{
			imagesGroup.POST("", imageHandler.UploadImage)             // POST /api/images
			imagesGroup.GET("/gallery", imageHandler.GetGallery)       // GET /api/images/gallery
			imagesGroup.GET("/:imageId", imageHandler.GetImage)        // GET /api/images/{imageId}
			imagesGroup.PATCH("/:imageId", imageHandler.UpdateImage)   // PATCH /api/images/{imageId}
			imagesGroup.DELETE("/:imageId", imageHandler.DeleteImage)  // DELETE /api/images/{imageId}
		}
	}

	// 文件内容走独立分组，不继承 no-store 头
	fileGroup := router.Group("/api/images/file")
	fileGroup.Use(fileRateLimiter.Middleware())
	{
		fileGroup.GET("/:identifier", imageHandler.ServeFile) // GET /api/images/file/{identifier}
	}
}
