package retry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/chaiyo/aegis/classify"
	"github.com/chaiyo/aegis/errx"
	"github.com/chaiyo/aegis/logx"
	"github.com/chaiyo/aegis/metrics"
)

// handler 重试执行器实现（非导出）
type handler struct {
	cfg        *Config
	classifier classify.Classifier
	logger     logx.Logger
	meter      metrics.Meter
	clock      func() time.Time
	sleeper    func(ctx context.Context, d time.Duration) error
	budget     *rate.Limiter
	breaker    *breaker
}

// Execute 执行操作，失败时按分类结论自动重试
func (h *handler) Execute(ctx context.Context, op Operation, opts ...CallOption) (interface{}, error) {
	if op == nil {
		return nil, ErrNoRetryableOperation
	}
	call, policy, err := h.resolveCall(opts)
	if err != nil {
		return nil, err
	}

	h.count(MetricRequestsTotal, "Retry calls")
	result, _, err := h.execute(ctx, op, call, policy)
	return result, err
}

// ExecuteManual 执行操作但不自动重试，失败时冻结为 Token
func (h *handler) ExecuteManual(ctx context.Context, op Operation, opts ...CallOption) (interface{}, *Token, error) {
	if op == nil {
		return nil, nil, ErrNoRetryableOperation
	}
	call, policy, err := h.resolveCall(opts)
	if err != nil {
		return nil, nil, err
	}

	h.count(MetricRequestsTotal, "Retry calls")
	if err := ctx.Err(); err != nil {
		return nil, nil, errx.Wrap(err, "retry: context done")
	}
	if err := h.breaker.allow(); err != nil {
		h.count(MetricRejectsTotal, "Calls rejected by open circuit")
		return nil, nil, err
	}

	h.count(MetricAttemptsTotal, "Operation attempts")
	result, err := op(ctx)
	if err == nil {
		h.breaker.success()
		h.count(MetricSuccessTotal, "Successful calls")
		return result, nil, nil
	}

	cls := h.classifier.Classify(err, call.info)
	h.terminal(cls)

	tok := &Token{
		Attempt:     1,
		OperationID: uuid.NewString(),
		handler:     h,
		op:          op,
		call:        call,
		policy:      policy,
	}
	h.logger.Debug("operation frozen for manual retry",
		logx.String("operation_id", tok.OperationID),
		logx.String("kind", string(cls.Kind)),
		logx.Err(cls.Cause))

	return nil, tok, &Error{Classification: cls}
}

// Resume 恢复执行 Token 绑定的操作
func (h *handler) Resume(ctx context.Context, tok *Token) (interface{}, error) {
	if tok == nil || tok.op == nil {
		return nil, ErrNoRetryableOperation
	}
	if !tok.inFlight.CompareAndSwap(false, true) {
		return nil, ErrTokenInFlight
	}
	defer tok.inFlight.Store(false)

	h.count(MetricRequestsTotal, "Retry calls")
	h.logger.Info("resuming operation",
		logx.String("operation_id", tok.OperationID),
		logx.Int("prior_attempts", tok.Attempt))

	result, used, err := h.execute(ctx, tok.op, tok.call, tok.policy)
	tok.Attempt += used
	return result, err
}

// BreakerStatus 返回熔断器状态快照
func (h *handler) BreakerStatus() BreakerStatus {
	return h.breaker.status()
}

// ========================================
// 重试循环 (Retry Loop)
// ========================================

// execute 自动重试主循环。
// 返回结果、本次循环消耗的尝试次数与终端错误。
func (h *handler) execute(ctx context.Context, op Operation, call *callOptions, policy *Config) (interface{}, int, error) {
	attempt := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, attempt - 1, errx.Wrap(err, "retry: context done")
		}

		// 每次尝试前都过一次放行检查：并发调用可能在本调用退避期间
		// 触发熔断，打开后的尝试立即短路
		if err := h.breaker.allow(); err != nil {
			h.count(MetricRejectsTotal, "Calls rejected by open circuit")
			h.logger.Debug("call rejected by open circuit",
				logx.String("operation", call.info.Operation))
			return nil, attempt - 1, err
		}

		h.count(MetricAttemptsTotal, "Operation attempts")
		result, err := op(ctx)
		if err == nil {
			h.breaker.success()
			h.count(MetricSuccessTotal, "Successful calls")
			if attempt > 1 {
				h.logger.Info("operation recovered",
					logx.String("operation", call.info.Operation),
					logx.Int("attempts", attempt))
			}
			return result, attempt, nil
		}

		cls := h.classifier.Classify(err, call.info)

		// 重试额度是分类建议与策略上限中较小的一个
		if !classify.ShouldRetry(cls, attempt) || attempt >= policy.MaxRetries {
			h.terminal(cls)
			return nil, attempt, &Error{Classification: cls}
		}

		next := attempt + 1
		if call.observer != nil {
			call.observer(next, cls)
		}

		if h.budget != nil && !h.budget.Allow() {
			h.logger.Warn("retry budget exhausted",
				logx.String("operation", call.info.Operation),
				logx.String("kind", string(cls.Kind)))
			h.terminal(cls)
			return nil, attempt, errx.Join(ErrBudgetExhausted, &Error{Classification: cls})
		}

		delay := h.retryDelay(policy, cls, attempt)
		if hist, e := h.meter.Histogram(MetricBackoffSeconds, "Backoff delay before a retry", metrics.WithUnit("s")); e == nil {
			hist.Record(ctx, delay.Seconds(), metrics.L(classify.LabelKind, string(cls.Kind)))
		}
		h.logger.Debug("retrying after backoff",
			logx.Int("next_attempt", next),
			logx.String("kind", string(cls.Kind)),
			logx.Duration("delay", delay),
			logx.Err(cls.Cause))

		if err := h.sleep(ctx, delay); err != nil {
			return nil, attempt, errx.Wrap(err, "retry: canceled during backoff")
		}
		attempt = next
	}
}

// terminal 处理终端失败：记指标，合格失败喂给熔断器。
// 熔断器只在每次调用的终端结果处更新一次，中间被重试的尝试不计入。
func (h *handler) terminal(cls classify.Classification) {
	h.count(MetricFailuresTotal, "Terminal failures",
		metrics.L(metrics.LabelCategory, string(cls.Category)))
	if cls.Severity >= classify.SeverityHigh {
		h.breaker.failure()
	}
}

// retryDelay 计算第 attempt 次尝试失败后的退避延迟。
// 分类建议的基础延迟优先于策略配置。
func (h *handler) retryDelay(policy *Config, cls classify.Classification, attempt int) time.Duration {
	base := policy.BaseDelay
	if cls.RetryDelay > 0 {
		base = cls.RetryDelay
	}
	d := classify.Backoff(base, policy.BackoffMultiplier, attempt, policy.MaxDelay)
	if policy.Jitter {
		d = classify.Jitter(d, policy.MaxDelay)
	}
	return d
}

// sleep 等待退避延迟，上下文取消时立即返回
func (h *handler) sleep(ctx context.Context, d time.Duration) error {
	if h.sleeper != nil {
		return h.sleeper(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// resolveCall 应用调用选项，返回调用状态与生效的策略
func (h *handler) resolveCall(opts []CallOption) (*callOptions, *Config, error) {
	call := &callOptions{}
	for _, o := range opts {
		o(call)
	}

	policy := h.cfg
	if call.policy != nil {
		p := call.policy.Clone()
		if err := p.Validate(); err != nil {
			return nil, nil, err
		}
		p.withDefaults()
		policy = p
	}
	return call, policy, nil
}

// count 记录计数器指标
func (h *handler) count(name, desc string, labels ...metrics.Label) {
	if counter, err := h.meter.Counter(name, desc); err == nil {
		counter.Inc(context.Background(), labels...)
	}
}
