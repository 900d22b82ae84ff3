package storage

import (
	"context"
	"errors"
	"io"
)

// Provider 存储提供者接口 - 依赖倒置的核心抽象
// 定义了资源字节存储的基本操作，所有存储实现必须遵循此接口
// DeleteWithContext 必须幂等：对象已不存在时同样成功，
// 调用方可以安全重试部分失败的删除流程
type Provider interface {
	// SaveWithContext 保存文件到存储
	SaveWithContext(ctx context.Context, identifier string, file io.Reader) error

	// GetWithContext 从存储获取文件
	GetWithContext(ctx context.Context, identifier string) (io.ReadSeeker, error)

	// DeleteWithContext 从存储删除文件（幂等）
	DeleteWithContext(ctx context.Context, identifier string) error

	// Exists 检查文件是否存在
	Exists(ctx context.Context, identifier string) (bool, error)

	// Health 检查存储健康状态
	Health(ctx context.Context) error

	// Name 返回存储名称
	Name() string
}

// ErrNotFound 对象不存在
type notFoundError struct {
	identifier string
}

func (e *notFoundError) Error() string {
	return "asset not found: " + e.identifier
}

// NewNotFoundError 创建对象缺失错误
func NewNotFoundError(identifier string) error {
	return &notFoundError{identifier: identifier}
}

// IsNotFound 判断错误是否表示对象缺失
func IsNotFound(err error) bool {
	var target *notFoundError
	return errors.As(err, &target)
}
