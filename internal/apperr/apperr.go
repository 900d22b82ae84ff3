package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误分类，决定 HTTP 状态码与客户端处理方式
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindLocked
	KindUpstream
)

// Error 携带稳定错误码的应用错误
// Code 是对外的机器可读标识，Message 面向用户，Err 保留底层原因
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New 创建应用错误
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap 包装底层错误
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// KindOf 提取错误分类，非应用错误一律视为内部错误
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// CodeOf 提取错误码
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL_ERROR"
}
