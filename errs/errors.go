// Package errs 提供带错误码的结构化错误，供命令行与 HTTP 外壳统一处理。
//
//	err := errs.New(errs.CodeInvalidInput, "行距 %g 超出范围", v)
//	if errs.Is(err, errs.CodeInvalidInput) {
//	    // 400
//	}
package errs

import (
	"errors"
	"fmt"
)

// Code 是机器可读的错误码。
type Code string

const (
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeFileNotFound Code = "FILE_NOT_FOUND"
	CodeInvalidAsset Code = "INVALID_ASSET"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Error 是带错误码与可选原因的错误。
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap 支持 errors.Is/As。
func (e *Error) Unwrap() error { return e.Cause }

// New 创建一个新的错误。
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap 包装已有错误。
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is 判断错误链中是否存在指定错误码。
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode 提取错误码；非 *Error 返回空字符串。
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage 返回面向用户的信息（不含错误码前缀）。
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
