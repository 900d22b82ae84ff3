package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// identifierPattern 合法的资源标识符：uuid 加可选扩展名
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// isValidIdentifier 拒绝空标识符和路径分隔符
func isValidIdentifier(identifier string) bool {
	if identifier == "" || identifier == "." || identifier == ".." {
		return false
	}
	return identifierPattern.MatchString(identifier)
}

// localStorage 本地文件存储实现
type localStorage struct {
	absBasePath string
}

// NewLocalStorage 创建本地存储提供者
func NewLocalStorage(basePath string) (Provider, error) {
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create local storage directory '%s': %w", absPath, err)
	}

	return &localStorage{
		absBasePath: absPath + string(os.PathSeparator),
	}, nil
}

// fullPath 解析标识符为落盘路径并校验未越界
func (s *localStorage) fullPath(identifier string) (string, error) {
	if !isValidIdentifier(identifier) {
		return "", fmt.Errorf("invalid asset identifier: %s", identifier)
	}

	dstPath := filepath.Join(s.absBasePath, identifier)
	if !strings.HasPrefix(dstPath, s.absBasePath) {
		return "", fmt.Errorf("invalid asset path, potential directory traversal: %s", identifier)
	}
	return dstPath, nil
}

// SaveWithContext 保存文件到本地存储
func (s *localStorage) SaveWithContext(ctx context.Context, identifier string, file io.Reader) error {
	dstPath, err := s.fullPath(identifier)
	if err != nil {
		return err
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file '%s': %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return fmt.Errorf("failed to copy file content to '%s': %w", dstPath, err)
	}

	return nil
}

// GetWithContext 从本地存储获取文件
func (s *localStorage) GetWithContext(ctx context.Context, identifier string) (io.ReadSeeker, error) {
	fullPath, err := s.fullPath(identifier)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewNotFoundError(identifier)
		}
		return nil, fmt.Errorf("failed to open file '%s': %w", identifier, err)
	}

	return file, nil
}

// DeleteWithContext 从本地存储删除文件，文件已不存在时视为成功
func (s *localStorage) DeleteWithContext(ctx context.Context, identifier string) error {
	fullPath, err := s.fullPath(identifier)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete local file '%s': %w", fullPath, err)
	}
	return nil
}

// Exists 检查文件是否存在
func (s *localStorage) Exists(ctx context.Context, identifier string) (bool, error) {
	fullPath, err := s.fullPath(identifier)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file '%s': %w", identifier, err)
	}
	return true, nil
}

// Health 检查存储目录可写
func (s *localStorage) Health(ctx context.Context) error {
	info, err := os.Stat(s.absBasePath)
	if err != nil {
		return fmt.Errorf("local storage directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("local storage path '%s' is not a directory", s.absBasePath)
	}
	return nil
}

// Name 返回存储名称
func (s *localStorage) Name() string {
	return "local"
}
