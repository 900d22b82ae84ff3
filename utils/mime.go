package utils

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// ContentTypeForFilename 根据扩展名推断 MIME 类型，未知时返回空字符串
func ContentTypeForFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return ""
	}
	contentType := mime.TypeByExtension(ext)
	// 去除可能的参数，如 "; charset=utf-8"
	return strings.TrimSpace(strings.Split(contentType, ";")[0])
}

// SniffContentType 读取流头部嗅探 MIME 类型，读取后把流拨回起点
func SniffContentType(stream io.ReadSeeker) (string, error) {
	buffer := make([]byte, 512)

	n, err := stream.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read stream for mime sniffing: %w", err)
	}

	contentType := http.DetectContentType(buffer[:n])

	_, err = stream.Seek(0, io.SeekStart)
	if err != nil {
		return "", fmt.Errorf("failed to seek stream back to start after sniffing: %w", err)
	}

	return contentType, nil
}

// DetectContentType 推断文件 MIME 类型，扩展名优先，嗅探兜底
func DetectContentType(filename string, stream io.ReadSeeker) string {
	if contentType := ContentTypeForFilename(filename); contentType != "" {
		return contentType
	}
	if stream != nil {
		if contentType, err := SniffContentType(stream); err == nil {
			return contentType
		}
	}
	return "application/octet-stream"
}
