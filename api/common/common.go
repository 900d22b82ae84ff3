package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/noven-dev/image-vault/config"
	"github.com/noven-dev/image-vault/internal/apperr"
)

type Response struct {
	Status string      `json:"status"`
	Msg    string      `json:"msg"`
	Data   interface{} `json:"data,omitempty"`
	Error  *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody 机器可读的错误载荷
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func Respond(c *gin.Context, httpStatus int, status string, message string, data interface{}) {
	c.JSON(httpStatus, Response{
		Status: status,
		Msg:    message,
		Data:   data,
	})
}

// RespondSuccess sends a success response with data.
func RespondSuccess(c *gin.Context, data interface{}) {
	Respond(c, http.StatusOK, "success", "", data)
}

// RespondSuccessMessage sends a success response with message and data.
func RespondSuccessMessage(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusOK, "success", message, data)
}

// RespondError sends an error response with message.
func RespondError(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, Response{
		Status: "error",
		Msg:    message,
		Error: &ErrorBody{
			Code:    "INTERNAL_ERROR",
			Message: message,
		},
	})
}

// RespondErrorAbort sends an error response and aborts the request chain.
func RespondErrorAbort(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Status: "error",
		Msg:    message,
		Error: &ErrorBody{
			Code:    "INTERNAL_ERROR",
			Message: message,
		},
	})
}

// RespondAppError 按错误分类映射 HTTP 状态码，附带稳定错误码
// 诊断细节只在非生产环境下带出
func RespondAppError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	message := "Internal server error"
	details := ""

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
		if appErr.Err != nil {
			details = appErr.Err.Error()
		}
	} else if err != nil {
		details = err.Error()
	}

	body := &ErrorBody{
		Code:    code,
		Message: message,
	}
	if !config.Get().IsProduction() {
		body.Details = details
	}

	c.JSON(httpStatusForKind(apperr.KindOf(err)), Response{
		Status: "error",
		Msg:    message,
		Error:  body,
	})
}

func httpStatusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindLocked:
		return http.StatusForbidden
	case apperr.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
