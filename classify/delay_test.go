package classify

import (
	"testing"
	"time"
)

func TestBackoffGrowth(t *testing.T) {
	base := 1000 * time.Millisecond
	max := 10000 * time.Millisecond

	// 前几次严格翻倍
	want := []time.Duration{
		1000 * time.Millisecond,
		2000 * time.Millisecond,
		4000 * time.Millisecond,
		8000 * time.Millisecond,
	}
	for i, w := range want {
		got := Backoff(base, 2, i+1, max)
		if got != w {
			t.Fatalf("attempt %d: expected %v, got %v", i+1, w, got)
		}
	}

	// 之后在上限处饱和
	if got := Backoff(base, 2, 5, max); got != max {
		t.Fatalf("attempt 5: expected saturation at %v, got %v", max, got)
	}
	if got := Backoff(base, 2, 10, max); got != max {
		t.Fatalf("attempt 10: expected saturation at %v, got %v", max, got)
	}
}

func TestBackoffNonDecreasing(t *testing.T) {
	base := 300 * time.Millisecond
	max := 30 * time.Second

	prev := time.Duration(0)
	for attempt := 1; attempt <= 16; attempt++ {
		d := Backoff(base, 1.7, attempt, max)
		if d <= 0 {
			t.Fatalf("attempt %d: expected positive delay, got %v", attempt, d)
		}
		if d < prev {
			t.Fatalf("attempt %d: delay decreased from %v to %v", attempt, prev, d)
		}
		if d > max {
			t.Fatalf("attempt %d: delay %v exceeds max %v", attempt, d, max)
		}
		prev = d
	}
}

func TestBackoffGuards(t *testing.T) {
	// 非法入参不会产生非正的延迟
	if d := Backoff(0, 2, 1, time.Second); d <= 0 {
		t.Fatalf("expected positive delay for zero base, got %v", d)
	}
	if d := Backoff(-time.Second, 2, 3, time.Second); d <= 0 {
		t.Fatalf("expected positive delay for negative base, got %v", d)
	}
	// 倍率低于 1 时按 1 处理
	if d := Backoff(time.Second, 0, 5, time.Minute); d != time.Second {
		t.Fatalf("expected constant delay for multiplier 0, got %v", d)
	}
	// 上限低于基础延迟时以基础延迟为准
	if d := Backoff(2*time.Second, 2, 1, time.Second); d != 2*time.Second {
		t.Fatalf("expected base delay when max below base, got %v", d)
	}
}

func TestJitterBounds(t *testing.T) {
	d := 5 * time.Second
	max := 10 * time.Second
	lo := time.Duration(float64(d) * (1 - JitterFraction))
	hi := time.Duration(float64(d) * (1 + JitterFraction))

	for i := 0; i < 500; i++ {
		j := Jitter(d, max)
		if j < lo || j > hi {
			t.Fatalf("jitter out of band: %v not in [%v, %v]", j, lo, hi)
		}
	}
}

func TestJitterNeverExceedsMax(t *testing.T) {
	d := 10 * time.Second
	max := 10 * time.Second

	for i := 0; i < 500; i++ {
		j := Jitter(d, max)
		if j > max {
			t.Fatalf("jitter %v exceeds max %v", j, max)
		}
		if j <= 0 {
			t.Fatalf("jitter must be positive, got %v", j)
		}
	}
}

func TestJitterPositive(t *testing.T) {
	if j := Jitter(0, time.Second); j <= 0 {
		t.Fatalf("expected positive jitter for zero input, got %v", j)
	}
	if j := Jitter(time.Nanosecond, time.Second); j <= 0 {
		t.Fatalf("expected positive jitter for tiny input, got %v", j)
	}
}

func TestRetryDelayCapped(t *testing.T) {
	base := time.Second
	max := 10 * time.Second

	for i := 0; i < 200; i++ {
		d := RetryDelay(base, 30, max)
		if d > max || d <= 0 {
			t.Fatalf("expected delay in (0, %v], got %v", max, d)
		}
	}

	// 首次重试在 ±20% 抖动带内
	lo := time.Duration(float64(base) * (1 - JitterFraction))
	hi := time.Duration(float64(base) * (1 + JitterFraction))
	for i := 0; i < 200; i++ {
		d := RetryDelay(base, 1, max)
		if d < lo || d > hi {
			t.Fatalf("first retry delay %v not in [%v, %v]", d, lo, hi)
		}
	}
}

func TestShouldRetryGates(t *testing.T) {
	retryable := Classification{Retryable: true, Severity: SeverityMedium, MaxRetries: 3}

	if !ShouldRetry(retryable, 1) || !ShouldRetry(retryable, 2) {
		t.Fatal("expected retry allowed before reaching max retries")
	}
	if ShouldRetry(retryable, 3) {
		t.Fatal("expected retry denied once attempts reach max retries")
	}

	nonRetryable := Classification{Retryable: false, Severity: SeverityLow, MaxRetries: 3}
	if ShouldRetry(nonRetryable, 1) {
		t.Fatal("expected retry denied for non-retryable classification")
	}

	critical := Classification{Retryable: true, Severity: SeverityCritical, MaxRetries: 3}
	if ShouldRetry(critical, 1) {
		t.Fatal("expected retry denied for critical severity")
	}
}
