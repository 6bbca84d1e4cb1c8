package retry

// Metrics 指标常量定义
const (
	// MetricRequestsTotal 重试调用总数 (Counter)
	MetricRequestsTotal = "retry_requests_total"

	// MetricAttemptsTotal 底层操作尝试总数 (Counter)
	MetricAttemptsTotal = "retry_attempts_total"

	// MetricSuccessTotal 成功调用数 (Counter)
	MetricSuccessTotal = "retry_success_total"

	// MetricFailuresTotal 终端失败数 (Counter)
	MetricFailuresTotal = "retry_failures_total"

	// MetricRejectsTotal 被打开的熔断器拒绝的调用数 (Counter)
	MetricRejectsTotal = "retry_rejects_total"

	// MetricBreakerTransitions 熔断器状态变更次数 (Counter)
	MetricBreakerTransitions = "retry_breaker_transitions_total"

	// MetricBackoffSeconds 重试退避延迟分布 (Histogram)
	MetricBackoffSeconds = "retry_backoff_seconds"

	// LabelFrom 源状态标签
	LabelFrom = "from"

	// LabelTo 目标状态标签
	LabelTo = "to"
)
