package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/studio-b12/gowebdav"

	"github.com/noven-dev/image-vault/config"
)

// webdavStorage WebDAV 存储实现
// gowebdav 客户端不接受 context，阻塞调用统一放到 goroutine 里配合 select 取消
type webdavStorage struct {
	client   *gowebdav.Client
	rootPath string
}

// NewWebDAVStorage 创建 WebDAV 存储提供者
func NewWebDAVStorage(cfg *config.Config) (Provider, error) {
	if cfg.WebDAVURL == "" {
		return nil, fmt.Errorf("webdav URL is required")
	}

	rootPath := strings.Trim(cfg.WebDAVRootPath, "/")
	if rootPath != "" {
		rootPath = "/" + rootPath
	}

	client := gowebdav.NewClient(cfg.WebDAVURL, cfg.WebDAVUsername, cfg.WebDAVPassword)

	// 验证连接
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := &webdavStorage{client: client, rootPath: rootPath}
	if err := s.Health(ctx); err != nil {
		return nil, fmt.Errorf("webdav connection test failed: %w", err)
	}

	return s, nil
}

// fullPath 生成完整的 WebDAV 路径
func (s *webdavStorage) fullPath(identifier string) string {
	identifier = strings.TrimLeft(identifier, "/")
	if s.rootPath != "" {
		return s.rootPath + "/" + identifier
	}
	return "/" + identifier
}

// isMissingError 判断是否为对象不存在的错误
func isMissingError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "404") || strings.Contains(errStr, "Not Found")
}

// run 执行阻塞的 WebDAV 调用并响应取消
func (s *webdavStorage) run(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// SaveWithContext 保存文件到 WebDAV
func (s *webdavStorage) SaveWithContext(ctx context.Context, identifier string, file io.Reader) error {
	fullPath := s.fullPath(identifier)

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file content: %w", err)
	}

	err = s.run(ctx, func() error {
		return s.client.Write(fullPath, data, os.FileMode(0644))
	})
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", identifier, err)
	}
	return nil
}

// GetWithContext 从 WebDAV 获取文件
func (s *webdavStorage) GetWithContext(ctx context.Context, identifier string) (io.ReadSeeker, error) {
	fullPath := s.fullPath(identifier)

	var data []byte
	err := s.run(ctx, func() error {
		var readErr error
		data, readErr = s.client.Read(fullPath)
		return readErr
	})
	if err != nil {
		if isMissingError(err) {
			return nil, NewNotFoundError(identifier)
		}
		return nil, fmt.Errorf("failed to read file %s: %w", identifier, err)
	}
	return bytes.NewReader(data), nil
}

// DeleteWithContext 从 WebDAV 删除文件，对象缺失时视为成功
func (s *webdavStorage) DeleteWithContext(ctx context.Context, identifier string) error {
	fullPath := s.fullPath(identifier)

	err := s.run(ctx, func() error {
		return s.client.Remove(fullPath)
	})
	if err != nil && !isMissingError(err) {
		return fmt.Errorf("failed to delete file %s: %w", identifier, err)
	}
	return nil
}

// Exists 检查文件是否存在
func (s *webdavStorage) Exists(ctx context.Context, identifier string) (bool, error) {
	fullPath := s.fullPath(identifier)

	err := s.run(ctx, func() error {
		_, statErr := s.client.Stat(fullPath)
		return statErr
	})
	if err != nil {
		if isMissingError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file %s: %w", identifier, err)
	}
	return true, nil
}

// Health 检查根目录可读
func (s *webdavStorage) Health(ctx context.Context) error {
	return s.run(ctx, func() error {
		_, err := s.client.ReadDir(s.rootPath)
		return err
	})
}

// Name 返回存储名称
func (s *webdavStorage) Name() string {
	return "webdav"
}
