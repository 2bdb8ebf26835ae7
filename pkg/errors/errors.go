// Package errors 提供统一的错误定义
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeNotFound           ErrorCode = "1004"
	CodeConflict           ErrorCode = "1005"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// 资源错误 (3xxx)
	CodeWorkspaceNotFound ErrorCode = "3001"
	CodeEssayNotFound     ErrorCode = "3002"

	// 表单校验错误 (4xxx)
	CodeTopicRequired    ErrorCode = "4001"
	CodeWordCountInvalid ErrorCode = "4002"
	CodeLanguageInvalid  ErrorCode = "4003"
	CodeEmptyMessage     ErrorCode = "4004"
	CodeThemeInvalid     ErrorCode = "4005"

	// 状态冲突 (6xxx)
	CodeSubmissionInFlight ErrorCode = "6001"
	CodeChatBusy           ErrorCode = "6002"
	CodeChatClosed         ErrorCode = "6003"

	// 外部服务错误 (5xxx)
	CodeDatabaseError    ErrorCode = "5001"
	CodeCacheError       ErrorCode = "5002"
	CodeLLMProviderError ErrorCode = "5005"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，使预定义错误可用于 errors.Is
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail 添加详细信息（返回副本，不修改预定义错误）
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithError 添加底层错误（返回副本，不修改预定义错误）
func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeTopicRequired, CodeWordCountInvalid, CodeLanguageInvalid, CodeEmptyMessage, CodeThemeInvalid:
		return http.StatusBadRequest
	case CodeNotFound, CodeWorkspaceNotFound, CodeEssayNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeSubmissionInFlight, CodeChatBusy, CodeChatClosed:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case CodeLLMProviderError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrWorkspaceNotFound = New(CodeWorkspaceNotFound, "workspace not found")
	ErrEssayNotFound     = New(CodeEssayNotFound, "essay not found")

	ErrTopicRequired    = New(CodeTopicRequired, "topic is required")
	ErrWordCountInvalid = New(CodeWordCountInvalid, "word count is invalid")
	ErrLanguageInvalid  = New(CodeLanguageInvalid, "language is not supported")
	ErrEmptyMessage     = New(CodeEmptyMessage, "message is empty")
	ErrThemeInvalid     = New(CodeThemeInvalid, "theme must be light or dark")

	ErrSubmissionInFlight = New(CodeSubmissionInFlight, "an essay submission is already in progress")
	ErrChatBusy           = New(CodeChatBusy, "a chat message is already being sent")
	ErrChatClosed         = New(CodeChatClosed, "chat widget is closed")
)

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}

