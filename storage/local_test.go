package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLocalStorage_PathTraversal_Prevention 测试路径遍历防护
func TestLocalStorage_PathTraversal_Prevention(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	traversalAttempts := []string{
		"../../../etc/passwd",
		"../../.env",
		"..",
		".",
		"",
		"folder/../../../etc/passwd",
		"test/../../test.txt",
		"a/b.png",
	}

	for _, attempt := range traversalAttempts {
		t.Run("save_"+attempt, func(t *testing.T) {
			err := storage.SaveWithContext(ctx, attempt, strings.NewReader("x"))
			assert.Error(t, err, "path traversal attempt should be rejected: %s", attempt)
			assert.Contains(t, err.Error(), "invalid")
		})
	}

	_, err = storage.GetWithContext(ctx, "../../../etc/passwd")
	assert.Error(t, err)

	err = storage.DeleteWithContext(ctx, "../../../etc/passwd")
	assert.Error(t, err)
}

// TestLocalStorage_SaveGetRoundTrip 测试写读闭环
func TestLocalStorage_SaveGetRoundTrip(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	identifier := "4f2c1f3a-1111-2222-3333-444455556666.png"

	require.NoError(t, storage.SaveWithContext(ctx, identifier, strings.NewReader("png bytes")))

	stream, err := storage.GetWithContext(ctx, identifier)
	require.NoError(t, err)
	if closer, ok := stream.(io.Closer); ok {
		defer closer.Close()
	}

	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))

	exists, err := storage.Exists(ctx, identifier)
	require.NoError(t, err)
	assert.True(t, exists)
}

// TestLocalStorage_GetMissing 缺失文件返回 not found
func TestLocalStorage_GetMissing(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = storage.GetWithContext(context.Background(), "missing.png")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

// TestLocalStorage_DeleteIdempotent 删除不存在的文件视为成功
func TestLocalStorage_DeleteIdempotent(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	identifier := "photo.jpg"
	require.NoError(t, storage.SaveWithContext(ctx, identifier, strings.NewReader("x")))

	require.NoError(t, storage.DeleteWithContext(ctx, identifier))
	// 再删一次仍然成功
	assert.NoError(t, storage.DeleteWithContext(ctx, identifier))
	assert.NoError(t, storage.DeleteWithContext(ctx, "never-existed.jpg"))

	exists, err := storage.Exists(ctx, identifier)
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestLocalStorage_Health 健康检查
func TestLocalStorage_Health(t *testing.T) {
	storage, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, storage.Health(context.Background()))
}

func TestIsNotFound_WrappedError(t *testing.T) {
	err := NewNotFoundError("a.png")
	assert.True(t, IsNotFound(err))
	assert.False(t, IsNotFound(context.Canceled))
	assert.False(t, IsNotFound(nil))
}
