package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// recordRow 关系型后端的行模型，记录本体以 JSON 文档列存放
// 表结构刻意保持键值形态，查询层不依赖任何列级索引
type recordRow struct {
	ImageID  string `gorm:"column:image_id;primaryKey"`
	Document []byte `gorm:"column:document;not null"`
}

// TableName 指定表名
func (recordRow) TableName() string {
	return "image_records"
}

// gormStore 基于 gorm 的元数据存储，支持 sqlite 和 postgres
type gormStore struct {
	db   *gorm.DB
	name string
}

// NewGormStore 创建关系型元数据存储并确保表存在
func NewGormStore(db *gorm.DB, name string) (Store, error) {
	if err := db.AutoMigrate(&recordRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate metadata table: %w", err)
	}
	return &gormStore{db: db, name: name}, nil
}

// Put 写入记录，主键冲突时覆盖文档
func (s *gormStore) Put(ctx context.Context, record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record '%s': %w", record.ImageID, err)
	}

	row := recordRow{ImageID: record.ImageID, Document: data}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "image_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to put record '%s': %w", record.ImageID, err)
	}
	return nil
}

// Get 按键读取记录
func (s *gormStore) Get(ctx context.Context, imageID string) (*Record, error) {
	var row recordRow
	err := s.db.WithContext(ctx).Where("image_id = ?", imageID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record '%s': %w", imageID, err)
	}

	var record Record
	if err := json.Unmarshal(row.Document, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record '%s': %w", imageID, err)
	}
	return &record, nil
}

// UpdateFields 在单个数据库事务内完成读取、锁检查、合并与写回
func (s *gormStore) UpdateFields(ctx context.Context, imageID string, fields map[string]interface{}) (*Record, error) {
	var updated *Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row recordRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("image_id = ?", imageID).First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var record Record
		if err := json.Unmarshal(row.Document, &record); err != nil {
			return err
		}

		if record.LockFile {
			return ErrLocked
		}

		updated, err = applyFieldUpdates(&record, fields, time.Now())
		if err != nil {
			return err
		}

		data, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		return tx.Model(&recordRow{}).Where("image_id = ?", imageID).
			Update("document", data).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrLocked) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update record '%s': %w", imageID, err)
	}
	return updated, nil
}

// Delete 删除记录，影响行数为零同样成功
func (s *gormStore) Delete(ctx context.Context, imageID string) error {
	err := s.db.WithContext(ctx).Where("image_id = ?", imageID).Delete(&recordRow{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete record '%s': %w", imageID, err)
	}
	return nil
}

// ScanAll 全量扫描
func (s *gormStore) ScanAll(ctx context.Context) ([]*Record, error) {
	var rows []recordRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to scan metadata store: %w", err)
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		var record Record
		if err := json.Unmarshal(row.Document, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record '%s': %w", row.ImageID, err)
		}
		records = append(records, &record)
	}
	return records, nil
}

// Ping 检查数据库连接
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭数据库连接
func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Name 返回存储名称
func (s *gormStore) Name() string {
	return s.name
}
