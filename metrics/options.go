package metrics

import "github.com/chaiyo/aegis/logx"

// Option 配置 Meter 实例的选项函数类型
type Option func(*options)

type options struct {
	logger logx.Logger
}

// WithLogger 注入日志记录器，组件自动追加 "metrics" 命名空间。
// logger 为 nil 时忽略。
func WithLogger(logger logx.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("metrics")
		}
	}
}
