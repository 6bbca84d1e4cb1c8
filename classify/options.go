package classify

import (
	"github.com/chaiyo/aegis/logx"
	"github.com/chaiyo/aegis/metrics"
)

// Option 定义分类器的可选参数
type Option func(*options)

// options 可选参数集合
type options struct {
	logger  logx.Logger
	meter   metrics.Meter
	rules   []Rule
	offline func() bool
}

// WithLogger 注入日志记录器，分类日志在 debug 级别输出
func WithLogger(logger logx.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMeter 注入指标收集器
func WithMeter(meter metrics.Meter) Option {
	return func(o *options) {
		o.meter = meter
	}
}

// WithRules 替换识别规则链。
// 与 DefaultRules 组合可以在默认规则前后插入自定义规则：
//
//	rules := append([]classify.Rule{custom}, classify.DefaultRules()...)
//	classifier, _ := classify.New(nil, classify.WithRules(rules...))
func WithRules(rules ...Rule) Option {
	return func(o *options) {
		o.rules = rules
	}
}

// WithOfflineProbe 注入离线状态探测函数，每次分类时调用。
// 探测到离线时强制归类为 network_offline，与 Info.Offline 等效。
func WithOfflineProbe(probe func() bool) Option {
	return func(o *options) {
		o.offline = probe
	}
}
