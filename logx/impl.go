package logx

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// NamespaceKey 是日志中命名空间的字段名。
const NamespaceKey = "ns"

// slogLogger 是 Logger 接口的 slog 实现。
type slogLogger struct {
	l  *slog.Logger
	ns string
}

func newLogger(cfg *Config) (Logger, error) {
	w, noColor, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: cfg.AddSource,
		})
	default:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			AddSource:  cfg.AddSource,
			TimeFormat: time.TimeOnly,
			NoColor:    noColor,
		})
	}

	return &slogLogger{l: slog.New(handler)}, nil
}

// openOutput 打开输出目标。写入文件时关闭彩色输出。
func openOutput(output string) (w io.Writer, noColor bool, err error) {
	switch output {
	case "", "stderr":
		return os.Stderr, false, nil
	case "stdout":
		return os.Stdout, false, nil
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, false, err
		}
		return f, true, nil
	}
}

func (x *slogLogger) log(ctx context.Context, level slog.Level, msg string, fields []Field) {
	if x.ns != "" {
		withNS := make([]Field, 0, len(fields)+1)
		withNS = append(withNS, slog.String(NamespaceKey, x.ns))
		fields = append(withNS, fields...)
	}
	x.l.LogAttrs(ctx, level, msg, fields...)
}

func (x *slogLogger) Debug(msg string, fields ...Field) {
	x.log(context.Background(), slog.LevelDebug, msg, fields)
}

func (x *slogLogger) Info(msg string, fields ...Field) {
	x.log(context.Background(), slog.LevelInfo, msg, fields)
}

func (x *slogLogger) Warn(msg string, fields ...Field) {
	x.log(context.Background(), slog.LevelWarn, msg, fields)
}

func (x *slogLogger) Error(msg string, fields ...Field) {
	x.log(context.Background(), slog.LevelError, msg, fields)
}

func (x *slogLogger) DebugContext(ctx context.Context, msg string, fields ...Field) {
	x.log(ctx, slog.LevelDebug, msg, fields)
}

func (x *slogLogger) InfoContext(ctx context.Context, msg string, fields ...Field) {
	x.log(ctx, slog.LevelInfo, msg, fields)
}

func (x *slogLogger) WarnContext(ctx context.Context, msg string, fields ...Field) {
	x.log(ctx, slog.LevelWarn, msg, fields)
}

func (x *slogLogger) ErrorContext(ctx context.Context, msg string, fields ...Field) {
	x.log(ctx, slog.LevelError, msg, fields)
}

func (x *slogLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return x
	}
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, f)
	}
	return &slogLogger{l: x.l.With(args...), ns: x.ns}
}

func (x *slogLogger) WithNamespace(name string) Logger {
	if name == "" {
		return x
	}
	ns := name
	if x.ns != "" {
		ns = x.ns + "." + name
	}
	return &slogLogger{l: x.l, ns: ns}
}
