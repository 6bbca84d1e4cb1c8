package config

import "github.com/chaiyo/aegis/logx"

// Option 配置加载器的选项函数类型
type Option func(*options)

type options struct {
	logger logx.Logger
}

// WithLogger 注入日志记录器，组件自动追加 "config" 命名空间。
// 未注入时加载过程静默。
func WithLogger(logger logx.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("config")
		}
	}
}
