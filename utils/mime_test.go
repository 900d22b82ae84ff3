package utils

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentTypeForFilename(t *testing.T) {
	cases := map[string]string{
		"photo.png":  "image/png",
		"photo.PNG":  "image/png",
		"photo.jpg":  "image/jpeg",
		"photo.jpeg": "image/jpeg",
		"photo.gif":  "image/gif",
		"photo.webp": "image/webp",
		"noext":      "",
	}
	for filename, want := range cases {
		assert.Equal(t, want, ContentTypeForFilename(filename), "filename: %s", filename)
	}
}

func TestSniffContentType_SeeksBack(t *testing.T) {
	// PNG 魔数开头的伪造内容
	data := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	reader := bytes.NewReader(data)

	contentType, err := SniffContentType(reader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	// 嗅探后流必须回到起点
	rest, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, len(data), len(rest))
}

func TestDetectContentType(t *testing.T) {
	// 扩展名优先
	assert.Equal(t, "image/png", DetectContentType("a.png", strings.NewReader("not actually png")))

	// 无扩展名时回退到嗅探
	pngData := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	assert.Equal(t, "image/png", DetectContentType("upload", bytes.NewReader(pngData)))

	// 全部失败时返回兜底类型
	assert.Equal(t, "application/octet-stream", DetectContentType("upload", nil))
}
