package core

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/noven-dev/image-vault/cache"
	"github.com/noven-dev/image-vault/config"
	"github.com/noven-dev/image-vault/metadata"
	"github.com/noven-dev/image-vault/storage"
)

var startTime = time.Now()

// ServerDependencies 服务器依赖项
type ServerDependencies struct {
	MetadataStore  metadata.Store
	StorageFactory *storage.Factory
	CacheProvider  cache.Provider
}

// 启动 gin
func setupRouter(deps *ServerDependencies) *gin.Engine {
	cfg := config.Get()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// 全局中间件
	if !cfg.IsProduction() {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL()},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.SetTrustedProxies(nil)

	// 限制上传文件大小
	router.MaxMultipartMemory = int64(cfg.UploadMaxSizeMB) << 20

	RegisterRoutes(router, deps)

	return router
}

// StartServer 创建 http.Server
func StartServer(deps *ServerDependencies) *http.Server {
	cfg := config.Get()
	router := setupRouter(deps)

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}
}
