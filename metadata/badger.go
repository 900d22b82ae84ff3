package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// badgerStore 基于嵌入式 Badger 的元数据存储
// 每个事务只触碰单个键，满足按键原子的能力契约
type badgerStore struct {
	db *badger.DB
}

// NewBadgerStore 打开（必要时创建）Badger 元数据库
func NewBadgerStore(path string) (Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger metadata store at '%s': %w", path, err)
	}
	return &badgerStore{db: db}, nil
}

// Put 写入记录，已有键被覆盖
func (s *badgerStore) Put(ctx context.Context, record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record '%s': %w", record.ImageID, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(record.ImageID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to put record '%s': %w", record.ImageID, err)
	}
	return nil
}

// Get 按键读取记录
func (s *badgerStore) Get(ctx context.Context, imageID string) (*Record, error) {
	var record Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(imageID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record '%s': %w", imageID, err)
	}
	return &record, nil
}

// UpdateFields 在单个读写事务内完成读取、锁检查、合并与写回
func (s *badgerStore) UpdateFields(ctx context.Context, imageID string, fields map[string]interface{}) (*Record, error) {
	var updated *Record
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(imageID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}

		var record Record
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		}); err != nil {
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
		return txn.Set([]byte(imageID), data)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrLocked) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update record '%s': %w", imageID, err)
	}
	return updated, nil
}

// Delete 删除记录，键不存在时同样成功
func (s *badgerStore) Delete(ctx context.Context, imageID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(imageID))
	})
	if err != nil {
		return fmt.Errorf("failed to delete record '%s': %w", imageID, err)
	}
	return nil
}

// ScanAll 全量扫描，迭代顺序不对外承诺
func (s *badgerStore) ScanAll(ctx context.Context) ([]*Record, error) {
	var records []*Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var record Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			records = append(records, &record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan metadata store: %w", err)
	}
	return records, nil
}

// Ping 检查数据库是否可用
func (s *badgerStore) Ping(ctx context.Context) error {
	if s.db == nil || s.db.IsClosed() {
		return errors.New("badger metadata store is closed")
	}
	return nil
}

// Close 关闭数据库
func (s *badgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Name 返回存储名称
func (s *badgerStore) Name() string {
	return "badger"
}
