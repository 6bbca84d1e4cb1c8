package retry

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/chaiyo/aegis/classify"
	"github.com/chaiyo/aegis/logx"
	"github.com/chaiyo/aegis/metrics"
)

// Option 执行器初始化选项函数
type Option func(*options)

// options 执行器初始化选项集合（内部使用）
type options struct {
	logger     logx.Logger
	meter      metrics.Meter
	classifier classify.Classifier
	clock      func() time.Time
	sleeper    func(ctx context.Context, d time.Duration) error
	budget     *rate.Limiter
	hook       func(from, to State)
}

// WithLogger 注入日志记录器
// 内部会自动添加 namespace: "retry"
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

// WithClassifier 注入错误分类器。
// 未注入时使用 classify.New(nil) 的全默认分类器。
func WithClassifier(classifier classify.Classifier) Option {
	return func(o *options) {
		o.classifier = classifier
	}
}

// WithClock 替换时间源，主要用于测试熔断冷却
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithSleeper 替换退避等待实现，主要用于测试。
// sleeper 返回非 nil 错误时重试循环立即终止。
func WithSleeper(sleeper func(ctx context.Context, d time.Duration) error) Option {
	return func(o *options) {
		o.sleeper = sleeper
	}
}

// WithRetryBudget 设置全局重试预算（令牌桶）。
// 每次重试等待前消耗一个令牌，预算耗尽时循环以 ErrBudgetExhausted 终止，
// 防止大面积故障时重试风暴压垮下游。
//
// 使用示例:
//
//	// 全局每秒最多 10 次重试，突发 20 次
//	handler, _ := retry.New(cfg, retry.WithRetryBudget(rate.Limit(10), 20))
func WithRetryBudget(limit rate.Limit, burst int) Option {
	return func(o *options) {
		o.budget = rate.NewLimiter(limit, burst)
	}
}

// WithStateChangeHook 注册熔断器状态变更回调。
// 回调在锁外同步执行，不应阻塞。
func WithStateChangeHook(hook func(from, to State)) Option {
	return func(o *options) {
		o.hook = hook
	}
}

// ========================================
// 调用级选项 (Call Options)
// ========================================

// CallOption 单次调用的选项函数
type CallOption func(*callOptions)

// callOptions 单次调用的选项集合（内部使用）
type callOptions struct {
	info     classify.Info
	observer func(nextAttempt int, cls classify.Classification)
	policy   *Config
}

// WithInfo 提供分类上下文（操作名、离线标记等）
func WithInfo(info classify.Info) CallOption {
	return func(c *callOptions) {
		c.info = info
	}
}

// WithObserver 注册重试观察回调，在每次重试等待前
// 以即将开始的尝试序号与当次分类结论调用
func WithObserver(observer func(nextAttempt int, cls classify.Classification)) CallOption {
	return func(c *callOptions) {
		c.observer = observer
	}
}

// WithPolicy 覆盖本次调用的重试策略数值。
// 只影响重试循环（次数、延迟、倍率、抖动）；
// 熔断器参数在构造时固定，调用级覆盖对其无效。nil 时忽略。
func WithPolicy(cfg *Config) CallOption {
	return func(c *callOptions) {
		c.policy = cfg
	}
}
