package classify

import (
	"math/rand"
	"time"
)

// ========================================
// 延迟计算 (Delay Arithmetic)
// ========================================

// JitterFraction 抖动幅度：延迟在计算值的 ±20% 区间内均匀取值，
// 避免多个调用方在同一时刻扎堆重试。
const JitterFraction = 0.2

// Backoff 计算第 attempt 次尝试的指数退避延迟（不含抖动）：
//
//	min(base * multiplier^(attempt-1), max)
//
// attempt 从 1 开始计数。结果恒为正且不超过 max。
func Backoff(base time.Duration, multiplier float64, attempt int, max time.Duration) time.Duration {
	if base <= 0 {
		base = time.Millisecond
	}
	if max < base {
		max = base
	}
	if multiplier < 1 {
		multiplier = 1
	}

	d := float64(base)
	for i := 1; i < attempt; i++ {
		d *= multiplier
		if d >= float64(max) {
			return max
		}
	}
	return time.Duration(d)
}

// Jitter 对 d 施加 ±JitterFraction 的乘性抖动，
// 结果截断到 (0, max] 区间，恒为正。
func Jitter(d, max time.Duration) time.Duration {
	if d <= 0 {
		d = time.Millisecond
	}
	factor := 1 + JitterFraction*(2*rand.Float64()-1)
	jittered := time.Duration(float64(d) * factor)
	if max > 0 && jittered > max {
		jittered = max
	}
	if jittered <= 0 {
		jittered = time.Millisecond
	}
	return jittered
}

// RetryDelay 计算第 attempt 次重试前的等待时间：
// 以 2 为倍率的指数退避加 ±20% 抖动，上限 max。
func RetryDelay(base time.Duration, attempt int, max time.Duration) time.Duration {
	return Jitter(Backoff(base, 2, attempt, max), max)
}

// ShouldRetry 判断第 attempt 次尝试失败后是否还应该重试。
//
// 规则：
//   - 不可重试的分类不重试
//   - critical 级别永不重试，即使分类标记为可重试
//   - 尝试次数达到分类建议上限后停止
func ShouldRetry(cls Classification, attempt int) bool {
	if !cls.Retryable {
		return false
	}
	if cls.Severity >= SeverityCritical {
		return false
	}
	return attempt < cls.MaxRetries
}
