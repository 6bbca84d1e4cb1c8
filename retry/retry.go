// Package retry 提供了带熔断保护的重试执行组件。
//
// retry 是 aegis 弹性层的核心组件，它提供了：
// - 指数退避加抖动的自动重试循环，重试决策由 classify 分类结论驱动
// - 每实例独立的熔断器：连续的高严重度失败达到阈值后快速失败，
//   超时后经半开状态探测恢复
// - 手动重试模式：失败的操作冻结为可恢复的 Token，由用户动作触发重试
// - 按领域调优的预设配置（网络、存储、档案操作）
// - gRPC 客户端拦截器无侵入集成
//
// ## 基本使用
//
//	handler, _ := retry.New(retry.NetworkConfig(), retry.WithLogger(logger))
//
//	result, err := handler.Execute(ctx, func(ctx context.Context) (interface{}, error) {
//	    return svc.Borrow(ctx, deviceID)
//	}, retry.WithInfo(classify.Info{Operation: "borrow_submit"}))
//
// ## 手动重试（界面上的"重试"按钮）
//
//	result, tok, err := handler.ExecuteManual(ctx, op)
//	if err != nil && tok != nil {
//	    // 把 tok 留给界面，用户点击重试时：
//	    result, err = tok.Resume(ctx)
//	}
//
// ## 泛型封装
//
//	loan, err := retry.Do(ctx, handler, func(ctx context.Context) (*Loan, error) {
//	    return svc.LoadLoan(ctx, loanID)
//	})
package retry

import (
	"context"
	"time"

	"github.com/chaiyo/aegis/classify"
	"github.com/chaiyo/aegis/errx"
	"github.com/chaiyo/aegis/logx"
	"github.com/chaiyo/aegis/metrics"
)

// ========================================
// 接口定义 (Interface Definitions)
// ========================================

// Operation 可重试的工作单元。
// 实现必须允许被多次调用，每次调用都应是一次完整的独立尝试。
type Operation func(ctx context.Context) (interface{}, error)

// Handler 重试执行器核心接口
type Handler interface {
	// Execute 执行操作，失败时按分类结论自动重试。
	//
	// 行为要点：
	//   - 熔断器打开且冷却未结束时立即返回 ErrCircuitOpen，不调用操作
	//   - 不可重试或 critical 级别的失败一次终止
	//   - 可重试的失败按指数退避加抖动延迟后重试，直到次数上限
	//   - 终端失败返回 *Error，错误链可达原始错误
	Execute(ctx context.Context, op Operation, opts ...CallOption) (interface{}, error)

	// ExecuteManual 执行操作但不自动重试。
	// 成功时返回 (result, nil, nil)；失败时返回 (nil, token, err)，
	// token 绑定了操作与调用选项，之后可经 Resume 按用户动作重试。
	ExecuteManual(ctx context.Context, op Operation, opts ...CallOption) (interface{}, *Token, error)

	// Resume 恢复执行 Token 绑定的操作，走完整的自动重试流程。
	// tok 为 nil 或未绑定操作时返回 ErrNoRetryableOperation；
	// 同一 Token 并发恢复时后到者返回 ErrTokenInFlight。
	Resume(ctx context.Context, tok *Token) (interface{}, error)

	// BreakerStatus 返回熔断器状态快照，只读无副作用
	BreakerStatus() BreakerStatus
}

// State 熔断器状态
type State int

const (
	// StateClosed 闭合状态（正常）
	StateClosed State = iota
	// StateHalfOpen 半开状态（探测恢复）
	StateHalfOpen
	// StateOpen 打开状态（熔断中）
	StateOpen
)

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half_open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// MarshalJSON 将状态序列化为字符串
func (s State) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// BreakerStatus 熔断器状态快照
type BreakerStatus struct {
	// State 当前状态
	State State `json:"state"`
	// Failures 连续合格失败计数
	Failures int `json:"failures"`
	// Open 是否处于打开状态
	Open bool `json:"open"`
}

// ========================================
// 配置定义 (Configuration)
// ========================================

// Config 重试执行器配置
type Config struct {
	// MaxRetries 自动重试的总尝试次数上限（默认：3）
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// BaseDelay 首次重试的基础延迟（默认：1s）。
	// 分类结论自带建议延迟时优先使用建议值。
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay" mapstructure:"base_delay"`

	// MaxDelay 单次重试延迟的上限（默认：10s）
	MaxDelay time.Duration `json:"max_delay" yaml:"max_delay" mapstructure:"max_delay"`

	// BackoffMultiplier 退避倍率（默认：2.0）
	BackoffMultiplier float64 `json:"backoff_multiplier" yaml:"backoff_multiplier" mapstructure:"backoff_multiplier"`

	// Jitter 是否在退避延迟上施加 ±20% 抖动。
	// 各预设配置均开启；零值 Config 表示显式关闭。
	Jitter bool `json:"jitter" yaml:"jitter" mapstructure:"jitter"`

	// BreakerThreshold 触发熔断的连续合格失败次数（默认：5）
	BreakerThreshold int `json:"breaker_threshold" yaml:"breaker_threshold" mapstructure:"breaker_threshold"`

	// BreakerTimeout 熔断打开后的冷却时长，冷却结束进入半开探测（默认：60s）
	BreakerTimeout time.Duration `json:"breaker_timeout" yaml:"breaker_timeout" mapstructure:"breaker_timeout"`
}

// DefaultConfig 返回通用默认配置
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:        3,
		BaseDelay:         1 * time.Second,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
		BreakerThreshold:  5,
		BreakerTimeout:    60 * time.Second,
	}
}

// NetworkConfig 返回网络操作预设：快节奏重试，较短冷却
func NetworkConfig() *Config {
	return &Config{
		MaxRetries:        3,
		BaseDelay:         1 * time.Second,
		MaxDelay:          8 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
		BreakerThreshold:  5,
		BreakerTimeout:    30 * time.Second,
	}
}

// FirestoreConfig 返回存储操作预设：更多重试次数与更宽的延迟上限
func FirestoreConfig() *Config {
	return &Config{
		MaxRetries:        5,
		BaseDelay:         2 * time.Second,
		MaxDelay:          30 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
		BreakerThreshold:  3,
		BreakerTimeout:    60 * time.Second,
	}
}

// ProfileConfig 返回档案操作预设：档案错误多为终态，快速收敛
func ProfileConfig() *Config {
	return &Config{
		MaxRetries:        2,
		BaseDelay:         500 * time.Millisecond,
		MaxDelay:          2 * time.Second,
		BackoffMultiplier: 2.0,
		Jitter:            true,
		BreakerThreshold:  5,
		BreakerTimeout:    30 * time.Second,
	}
}

// Clone 返回配置的副本，nil 安全
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	dup := *c
	return &dup
}

// Validate 验证配置，拒绝负值与无意义的倍率
func (c *Config) Validate() error {
	if c.MaxRetries < 0 {
		return errx.Wrap(ErrInvalidConfig, "negative max_retries")
	}
	if c.BaseDelay < 0 || c.MaxDelay < 0 {
		return errx.Wrap(ErrInvalidConfig, "negative delay")
	}
	if c.BackoffMultiplier < 0 || (c.BackoffMultiplier > 0 && c.BackoffMultiplier < 1) {
		return errx.Wrap(ErrInvalidConfig, "backoff multiplier must be 0 or >= 1")
	}
	if c.BreakerThreshold < 0 {
		return errx.Wrap(ErrInvalidConfig, "negative breaker_threshold")
	}
	if c.BreakerTimeout < 0 {
		return errx.Wrap(ErrInvalidConfig, "negative breaker_timeout")
	}
	return nil
}

// withDefaults 填充零值字段
func (c *Config) withDefaults() {
	def := DefaultConfig()
	if c.MaxRetries == 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.BaseDelay == 0 {
		c.BaseDelay = def.BaseDelay
	}
	if c.MaxDelay == 0 {
		c.MaxDelay = def.MaxDelay
	}
	if c.MaxDelay < c.BaseDelay {
		c.MaxDelay = c.BaseDelay
	}
	if c.BackoffMultiplier == 0 {
		c.BackoffMultiplier = def.BackoffMultiplier
	}
	if c.BreakerThreshold == 0 {
		c.BreakerThreshold = def.BreakerThreshold
	}
	if c.BreakerTimeout == 0 {
		c.BreakerTimeout = def.BreakerTimeout
	}
}

// ========================================
// 工厂函数 (Factory Functions)
// ========================================

// New 创建重试执行器实例
// 这是标准的工厂函数，支持在不依赖其他容器的情况下独立实例化。
// 没有包级共享实例：每个调用方显式构造或注入自己的 Handler，
// 互不相关的调用链不会共享熔断状态。
//
// 参数:
//   - cfg: 执行器配置，nil 时使用 DefaultConfig
//   - opts: 可选参数 (Logger, Meter, Classifier, Clock, Sleeper, RetryBudget, StateChangeHook)
//
// 使用示例:
//
//	handler, err := retry.New(retry.FirestoreConfig(),
//	    retry.WithLogger(logger),
//	    retry.WithMeter(meter),
//	)
func New(cfg *Config, opts ...Option) (Handler, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.withDefaults()

	// 应用选项
	opt := options{}
	for _, o := range opts {
		o(&opt)
	}

	logger := logx.Discard()
	if opt.logger != nil {
		logger = opt.logger.WithNamespace("retry")
	}
	meter := opt.meter
	if meter == nil {
		meter = metrics.Noop()
	}

	classifier := opt.classifier
	if classifier == nil {
		var err error
		classifier, err = classify.New(nil)
		if err != nil {
			return nil, err
		}
	}

	clock := opt.clock
	if clock == nil {
		clock = time.Now
	}

	h := &handler{
		cfg:        cfg,
		classifier: classifier,
		logger:     logger,
		meter:      meter,
		clock:      clock,
		sleeper:    opt.sleeper,
		budget:     opt.budget,
	}
	h.breaker = newBreaker(breakerConfig{
		threshold: cfg.BreakerThreshold,
		timeout:   cfg.BreakerTimeout,
	}, clock, logger, meter, opt.hook)

	logger.Info("retry handler created",
		logx.Int("max_retries", cfg.MaxRetries),
		logx.Duration("base_delay", cfg.BaseDelay),
		logx.Duration("max_delay", cfg.MaxDelay),
		logx.Float64("backoff_multiplier", cfg.BackoffMultiplier),
		logx.Bool("jitter", cfg.Jitter),
		logx.Int("breaker_threshold", cfg.BreakerThreshold),
		logx.Duration("breaker_timeout", cfg.BreakerTimeout))

	return h, nil
}
