// Package errx 提供 aegis 各组件共享的错误处理工具。
//
// 约定：
//   - 组件的哨兵错误用 errx.New 定义，消息带包名前缀（如 "retry: circuit open"）
//   - 需要被上层程序分支处理的错误用 WithCode 附加机器可读错误码
//   - 包装错误统一用 Wrap/Wrapf，保留 errors.Is/As 可达的错误链
//
// ## 基本使用
//
//	var ErrCircuitOpen = errx.WithCode(errx.New("retry: circuit open"), "retry.circuit_open")
//
//	if errx.HasCode(err, "retry.circuit_open") {
//	    // 熔断打开，走降级逻辑
//	}
package errx

import (
	"errors"
	"fmt"
)

// New 创建一个新的错误，等价于标准库 errors.New。
func New(msg string) error {
	return errors.New(msg)
}

// Errorf 创建一个格式化的错误，支持 %w 包装动词。
func Errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Wrap 用上下文信息包装错误，保留错误链。err 为 nil 时返回 nil。
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf 用格式化的上下文信息包装错误。err 为 nil 时返回 nil。
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// WithCode 给错误附加机器可读错误码。err 为 nil 时返回 nil。
func WithCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &CodedError{code: code, cause: err}
}

// CodedError 带有机器可读错误码的错误。
//
// 错误码用于程序分支（如 HTTP 状态映射、熔断识别），
// 错误消息用于日志和人读输出，两者互不侵入。
type CodedError struct {
	code  string
	cause error
}

func (e *CodedError) Error() string {
	if e.cause == nil {
		return e.code
	}
	return e.cause.Error()
}

// Code 返回错误码。
func (e *CodedError) Code() string {
	return e.code
}

func (e *CodedError) Unwrap() error {
	return e.cause
}

// GetCode 从错误链中提取第一个错误码，没有则返回空串。
func GetCode(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.code
	}
	return ""
}

// HasCode 判断错误链中是否带有指定错误码。
func HasCode(err error, code string) bool {
	return code != "" && GetCode(err) == code
}

// Must 在 err 非 nil 时 panic。仅用于程序初始化阶段。
func Must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("must: %v", err))
	}
	return v
}

// 标准库函数再导出，使用方无需额外 import errors。
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)
