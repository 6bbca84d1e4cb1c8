package retry

import (
	"context"
	"sync"
	"time"

	"github.com/chaiyo/aegis/logx"
	"github.com/chaiyo/aegis/metrics"
)

// ========================================
// 状态机内核 (Pure State Machine)
// ========================================

// breakerCore 熔断器的全部状态，纯值语义
type breakerCore struct {
	state       State
	failures    int
	lastFailure time.Time
}

// breakerConfig 状态机参数
type breakerConfig struct {
	threshold int
	timeout   time.Duration
}

// breakerEvent 状态机事件
type breakerEvent int

const (
	// evAllow 调用放行检查：唯一触发 open -> half_open 的事件，
	// 冷却是否结束只在调用边界惰性求值，没有后台定时器
	evAllow breakerEvent = iota
	// evSuccess 调用成功
	evSuccess
	// evFailure 合格失败（分类严重级别 >= high），低严重度失败不产生此事件
	evFailure
)

// transition 熔断器状态机的唯一转移函数。
//
// 纯函数：输入当前状态、事件、时刻与参数，输出下一个状态，
// 无任何副作用。并发保护与日志、指标都在外层 breaker 中处理。
//
// 转移规则：
//   - closed --失败计数达到阈值--> open
//   - open --冷却结束后的放行检查--> half_open
//   - half_open --成功--> closed（计数清零）
//   - half_open --合格失败--> open（刷新失败时刻）
//   - 任意状态的成功都将计数清零
func transition(core breakerCore, ev breakerEvent, now time.Time, cfg breakerConfig) breakerCore {
	switch ev {
	case evAllow:
		if core.state == StateOpen && now.Sub(core.lastFailure) >= cfg.timeout {
			core.state = StateHalfOpen
		}
	case evSuccess:
		core.state = StateClosed
		core.failures = 0
	case evFailure:
		core.failures++
		core.lastFailure = now
		if core.state == StateHalfOpen || core.failures >= cfg.threshold {
			core.state = StateOpen
		}
	}
	return core
}

// ========================================
// 同步持有者 (Synchronized Owner)
// ========================================

// breaker 持有状态机内核的唯一同步入口。
// 所有事件都在互斥锁内应用，状态变更的日志、指标与回调在锁外发出。
type breaker struct {
	mu   sync.Mutex
	core breakerCore

	cfg    breakerConfig
	clock  func() time.Time
	logger logx.Logger
	meter  metrics.Meter
	hook   func(from, to State)
}

func newBreaker(cfg breakerConfig, clock func() time.Time, logger logx.Logger, meter metrics.Meter, hook func(from, to State)) *breaker {
	return &breaker{
		cfg:    cfg,
		clock:  clock,
		logger: logger.WithNamespace("breaker"),
		meter:  meter,
		hook:   hook,
	}
}

// allow 执行放行检查。拒绝时返回 ErrCircuitOpen。
func (b *breaker) allow() error {
	state := b.apply(evAllow)
	if state == StateOpen {
		return ErrCircuitOpen
	}
	return nil
}

// success 记录一次成功的终端结果
func (b *breaker) success() {
	b.apply(evSuccess)
}

// failure 记录一次合格失败的终端结果
func (b *breaker) failure() {
	b.apply(evFailure)
}

// status 返回状态快照
func (b *breaker) status() BreakerStatus {
	b.mu.Lock()
	core := b.core
	b.mu.Unlock()

	return BreakerStatus{
		State:    core.state,
		Failures: core.failures,
		Open:     core.state == StateOpen,
	}
}

// apply 在锁内应用事件，返回事件后的状态
func (b *breaker) apply(ev breakerEvent) State {
	now := b.clock()

	b.mu.Lock()
	from := b.core.state
	b.core = transition(b.core, ev, now, b.cfg)
	to := b.core.state
	failures := b.core.failures
	b.mu.Unlock()

	if from != to {
		b.observeTransition(from, to, failures)
	}
	return to
}

// observeTransition 发出状态变更的日志、指标与回调
func (b *breaker) observeTransition(from, to State, failures int) {
	b.logger.Warn("circuit breaker state changed",
		logx.String("from", from.String()),
		logx.String("to", to.String()),
		logx.Int("failures", failures))

	if counter, err := b.meter.Counter(MetricBreakerTransitions, "Circuit breaker state transitions"); err == nil {
		counter.Inc(context.Background(),
			metrics.L(LabelFrom, from.String()),
			metrics.L(LabelTo, to.String()))
	}

	if b.hook != nil {
		b.hook(from, to)
	}
}
