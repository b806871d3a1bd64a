package constant

import (
	"errors"
	"fmt"
	"net/http"
)

// Error 错误接口
type Error interface {
	error
	Code() int
	Message() string
	Status() int
	WithMessage(msg string) Error
}

// CustomError 自定义错误实现
type CustomError struct {
	code    int
	message string
	status  int
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("code: %d, message: %s", e.code, e.message)
}

func (e *CustomError) Code() int {
	return e.code
}

func (e *CustomError) Message() string {
	return e.message
}

func (e *CustomError) Status() int {
	return e.status
}

// WithMessage 返回同错误码的副本，替换对外提示
func (e *CustomError) WithMessage(msg string) Error {
	return &CustomError{code: e.code, message: msg, status: e.status}
}

// NewError 创建错误
func NewError(code int) Error {
	if info, exists := ErrorMessages[code]; exists {
		return &CustomError{code: code, message: info.EN, status: StatusOf(code)}
	}
	return &CustomError{code: code, message: "Unknown error", status: StatusOf(code)}
}

// GetErrorInfo 获取错误信息
func GetErrorInfo(code int) (ErrorInfo, bool) {
	info, exists := ErrorMessages[code]
	return info, exists
}

// StatusOf 错误码对应的 HTTP 状态
func StatusOf(code int) int {
	if s, ok := errorStatus[code]; ok {
		return s
	}
	if code < CodeInvalidParams {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// AsError 从错误链中取出业务错误
func AsError(err error) (Error, bool) {
	var e Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode 判断错误链中是否包含指定错误码
func IsCode(err error, code int) bool {
	e, ok := AsError(err)
	return ok && e.Code() == code
}
