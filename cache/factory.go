package cache

import (
	"fmt"
	"log"

	"github.com/noven-dev/image-vault/config"
)

// New 按配置创建缓存提供者
func New(cfg *config.Config) (Provider, error) {
	switch cfg.CacheType {
	case "memory", "":
		return NewMemoryCache(MemoryConfig{Metrics: true})

	case "redis":
		provider, err := NewRedisCache(RedisConfig{
			Address:  cfg.CacheRedisAddr,
			Password: cfg.CacheRedisPassword,
			DB:       cfg.CacheRedisDB,
		})
		if err != nil {
			// Redis 不可用时回退到内存缓存，不阻塞启动
			log.Printf("Failed to initialize redis cache, falling back to memory: %v", err)
			return NewMemoryCache(MemoryConfig{Metrics: true})
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.CacheType)
	}
}
