package logx

import (
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// Field 是 slog.Attr 的类型别名，字段构造零内存分配。
type Field = slog.Attr

// String 创建字符串字段
func String(k, v string) Field {
	return slog.String(k, v)
}

// Int 创建整数字段
func Int(k string, v int) Field {
	return slog.Int(k, v)
}

// Int64 创建64位整数字段
func Int64(k string, v int64) Field {
	return slog.Int64(k, v)
}

// Float64 创建浮点数字段
func Float64(k string, v float64) Field {
	return slog.Float64(k, v)
}

// Bool 创建布尔字段
func Bool(k string, v bool) Field {
	return slog.Bool(k, v)
}

// Time 创建时间字段
func Time(k string, v time.Time) Field {
	return slog.Time(k, v)
}

// Duration 创建时间长度字段
func Duration(k string, v time.Duration) Field {
	return slog.Duration(k, v)
}

// Any 创建任意类型字段
func Any(k string, v any) Field {
	return slog.Any(k, v)
}

// Err 创建错误字段，键名为 err。
//
// console 格式下 tint 会对该字段做高亮，json 格式下退化为普通字符串字段。
func Err(err error) Field {
	if err == nil {
		return slog.Attr{}
	}
	return tint.Err(err)
}
