package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onionpay-api/internal/constant"
	"onionpay-api/internal/logger"
)

// TraceIDKey gin 上下文中的 trace id
const TraceIDKey = "trace_id"

// ErrorResponse 统一错误响应
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"traceId,omitempty"`
}

// MessageResponse 简单确认响应
type MessageResponse struct {
	Message string `json:"message"`
	OrderID string `json:"orderId,omitempty"`
}

// Error 按错误码构造响应（对外使用英文描述）
func Error(code int) ErrorResponse {
	if info, exists := constant.GetErrorInfo(code); exists {
		return ErrorResponse{Code: code, Message: info.EN}
	}
	return ErrorResponse{Code: code, Message: "Unknown error"}
}

// ErrorWithTrace 错误响应（带 TraceID）
func ErrorWithTrace(code int, traceID string) ErrorResponse {
	resp := Error(code)
	resp.TraceID = traceID
	return resp
}

// Abort 以错误码终止请求
func Abort(c *gin.Context, code int) {
	c.AbortWithStatusJSON(constant.StatusOf(code), ErrorWithTrace(code, c.GetString(TraceIDKey)))
}

// Fail 将 service 层错误翻译为 HTTP 响应；非业务错误一律 500 且不暴露细节
func Fail(c *gin.Context, err error) {
	traceID := c.GetString(TraceIDKey)
	if e, ok := constant.AsError(err); ok {
		c.AbortWithStatusJSON(e.Status(), ErrorResponse{Code: e.Code(), Message: e.Message(), TraceID: traceID})
		return
	}
	logger.ErrorLog.WithFields(map[string]interface{}{
		"trace_id": traceID,
		"path":     c.Request.URL.Path,
	}).Errorf("[HTTP] unhandled error: %v", err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorWithTrace(constant.CodeSystemError, traceID))
}

// BindFail 请求体校验失败
func BindFail(c *gin.Context, err error) {
	Fail(c, constant.NewError(constant.CodeInvalidParams).WithMessage(BindErrorMessage(err)))
}
