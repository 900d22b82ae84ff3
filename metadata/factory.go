package metadata

import (
	"fmt"
	"log"

	"github.com/noven-dev/image-vault/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewStore 按配置创建元数据存储后端
func NewStore(cfg *config.Config) (Store, error) {
	switch cfg.MetadataType {
	case "badger", "":
		log.Printf("Initializing 'badger' metadata store at %s", cfg.MetadataBadgerPath)
		return NewBadgerStore(cfg.MetadataBadgerPath)

	case "sqlite":
		log.Printf("Initializing 'sqlite' metadata store at %s", cfg.MetadataSQLitePath)
		db, err := gorm.Open(sqlite.Open(cfg.MetadataSQLitePath), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite metadata store: %w", err)
		}
		return NewGormStore(db, "sqlite")

	case "postgres":
		log.Println("Initializing 'postgres' metadata store")
		db, err := gorm.Open(postgres.Open(cfg.MetadataPostgresDSN), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres metadata store: %w", err)
		}
		return NewGormStore(db, "postgres")

	default:
		return nil, fmt.Errorf("unknown metadata store type '%s'", cfg.MetadataType)
	}
}
