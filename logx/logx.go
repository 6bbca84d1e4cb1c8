// Package logx 为 aegis 各组件提供基于 slog 的结构化日志。
//
// 特性：
//   - 抽象接口，不暴露底层实现（slog）
//   - 支持层级命名空间，组件日志可按 "retry"、"retry.breaker" 归属
//   - console 格式使用 tint 彩色输出，json 格式使用标准 slog JSON
//   - 库代码持有 Logger 接口，不关心输出目标
//
// ## 基本使用
//
//	logger, _ := logx.New(&logx.Config{
//	    Level:  "info",
//	    Format: "console",
//	    Output: "stderr",
//	})
//	logger.Info("borrow request accepted", logx.String("device_id", "cam-012"))
//
// 组件内部约定：
//
//	// 组件通过 WithLogger 注入，nil 时静默
//	logger := logx.Discard()
//	if injected != nil {
//	    logger = injected.WithNamespace("retry")
//	}
package logx

import "context"

// Logger 日志接口，提供结构化日志记录功能。
//
// 四个级别各有带 Context 与不带 Context 的版本；
// 带 Context 的版本供取消传播与后续扩展使用。
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	DebugContext(ctx context.Context, msg string, fields ...Field)
	InfoContext(ctx context.Context, msg string, fields ...Field)
	WarnContext(ctx context.Context, msg string, fields ...Field)
	ErrorContext(ctx context.Context, msg string, fields ...Field)

	// With 创建一个带有预设字段的子 Logger，预设字段出现在后续所有日志中。
	With(fields ...Field) Logger

	// WithNamespace 创建一个扩展命名空间的子 Logger。
	//
	// 命名空间用 "." 连接并以 ns 字段输出：
	//
	//	logger.WithNamespace("retry").WithNamespace("breaker")
	//	// ns=retry.breaker
	WithNamespace(name string) Logger
}

// New 创建一个 Logger 实例。
//
// cfg 为 nil 时使用默认配置（info 级别，console 格式，stderr 输出）。
func New(cfg *Config) (Logger, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return newLogger(cfg)
}

// Default 返回默认配置的 Logger，适合示例程序与快速上手。
func Default() Logger {
	l, err := New(nil)
	if err != nil {
		// 默认配置恒为合法
		return Discard()
	}
	return l
}
