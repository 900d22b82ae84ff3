package metadata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("metadata record not found")

	// ErrLocked 记录被锁定，拒绝字段更新
	ErrLocked = errors.New("metadata record is locked")
)

// Store 元数据存储能力接口 - 依赖倒置的核心抽象
// 只要求按键原子的 put/get/update/delete 和一次无序全量扫描，
// 任何满足该最小能力集的后端均可替换，无需改动上层查询逻辑
type Store interface {
	// Put 写入（覆盖）一条记录
	Put(ctx context.Context, record *Record) error

	// Get 按 imageId 读取记录，缺失返回 ErrNotFound
	Get(ctx context.Context, imageID string) (*Record, error)

	// UpdateFields 按键原子地合并部分字段并加盖修改时间
	// 缺失返回 ErrNotFound，记录锁定返回 ErrLocked
	UpdateFields(ctx context.Context, imageID string, fields map[string]interface{}) (*Record, error)

	// Delete 删除记录，键缺失也视为成功（幂等）
	Delete(ctx context.Context, imageID string) error

	// ScanAll 读取全部记录，顺序不做任何保证
	ScanAll(ctx context.Context) ([]*Record, error)

	// Ping 检查存储健康状态
	Ping(ctx context.Context) error

	// Close 关闭存储
	Close() error

	// Name 返回存储名称
	Name() string
}

// updatableFields 允许通过 UpdateFields 修改的字段白名单
var updatableFields = map[string]bool{
	"title":       true,
	"description": true,
	"tags":        true,
	"lockFile":    true,
}

// applyFieldUpdates 把部分字段合并到记录副本上并加盖修改时间
// 字段名为 JSON 命名，非白名单字段直接拒绝
func applyFieldUpdates(record *Record, fields map[string]interface{}, now time.Time) (*Record, error) {
	for key := range fields {
		if !updatableFields[key] {
			return nil, fmt.Errorf("field %q is not updatable", key)
		}
	}

	updated := record.Clone()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  updated,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build field decoder: %w", err)
	}
	if err := decoder.Decode(fields); err != nil {
		return nil, fmt.Errorf("failed to merge field updates: %w", err)
	}

	ts := now.UTC()
	updated.ModificationDate = &ts
	return updated, nil
}
