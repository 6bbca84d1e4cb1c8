package retry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/chaiyo/aegis/classify"
	"github.com/chaiyo/aegis/errx"
	"github.com/chaiyo/aegis/testkit"
)

// ============================================================
// 辅助类型
// ============================================================

// script 按脚本执行的操作：前 failures 次返回 err，之后返回 result
type script struct {
	mu       sync.Mutex
	failures int
	err      error
	result   interface{}
	calls    int
}

func (s *script) op(ctx context.Context) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return nil, s.err
	}
	return s.result, nil
}

func (s *script) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recordingSleeper 记录退避延迟而不真正等待
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleeper) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

// stubClassifier 返回固定分类结论的分类器
type stubClassifier struct {
	cls classify.Classification
}

func (s *stubClassifier) Classify(err error, info classify.Info) classify.Classification {
	cls := s.cls
	cls.Info = info
	cls.Cause = err
	cls.Timestamp = time.Now()
	return cls
}

func (s *stubClassifier) Message(cls classify.Classification) classify.Message {
	return classify.Message{}
}

func (s *stubClassifier) MessageFor(err error, info classify.Info) classify.Message {
	return classify.Message{}
}

// testConfig 返回关闭抖动的确定性测试配置
func testConfig() *Config {
	return &Config{
		MaxRetries:        3,
		BaseDelay:         10 * time.Millisecond,
		MaxDelay:          3 * time.Second,
		BackoffMultiplier: 2.0,
		BreakerThreshold:  5,
		BreakerTimeout:    time.Second,
	}
}

// newTestHandler 创建即时退避的测试执行器
func newTestHandler(t *testing.T, cfg *Config, opts ...Option) (Handler, *recordingSleeper) {
	t.Helper()
	sleeper := &recordingSleeper{}
	h, err := New(cfg, append([]Option{WithSleeper(sleeper.sleep)}, opts...)...)
	if err != nil {
		t.Fatalf("New should not return error, got: %v", err)
	}
	return h, sleeper
}

// ============================================================
// 工厂与配置测试
// ============================================================

// TestNew_Defaults 测试 nil 配置下的创建
func TestNew_Defaults(t *testing.T) {
	kit := testkit.NewKit(t)
	h, err := New(nil, WithLogger(kit.Logger), WithMeter(kit.Meter))
	if err != nil {
		t.Fatalf("New(nil) should not return error, got: %v", err)
	}

	st := h.BreakerStatus()
	if st.State != StateClosed || st.Failures != 0 || st.Open {
		t.Errorf("new handler should start with a closed breaker, got: %+v", st)
	}
}

// TestNew_InvalidConfig 测试非法配置被拒绝
func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"负的重试次数", &Config{MaxRetries: -1}},
		{"负的基础延迟", &Config{BaseDelay: -time.Second}},
		{"负的延迟上限", &Config{MaxDelay: -time.Second}},
		{"小于 1 的退避倍率", &Config{BackoffMultiplier: 0.5}},
		{"负的退避倍率", &Config{BackoffMultiplier: -2}},
		{"负的熔断阈值", &Config{BreakerThreshold: -1}},
		{"负的熔断冷却", &Config{BreakerTimeout: -time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if !errx.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got: %v", err)
			}
		})
	}
}

// TestConfigPresets 测试预设配置的关键参数
func TestConfigPresets(t *testing.T) {
	if cfg := DefaultConfig(); cfg.MaxRetries != 3 || cfg.BaseDelay != time.Second {
		t.Errorf("unexpected default preset: %+v", cfg)
	}
	if cfg := NetworkConfig(); cfg.MaxRetries != 3 || cfg.BreakerTimeout != 30*time.Second {
		t.Errorf("unexpected network preset: %+v", cfg)
	}
	if cfg := FirestoreConfig(); cfg.MaxRetries != 5 || cfg.BaseDelay != 2*time.Second || cfg.BreakerThreshold != 3 {
		t.Errorf("unexpected firestore preset: %+v", cfg)
	}
	if cfg := ProfileConfig(); cfg.MaxRetries != 2 || cfg.BaseDelay != 500*time.Millisecond {
		t.Errorf("unexpected profile preset: %+v", cfg)
	}

	for _, cfg := range []*Config{DefaultConfig(), NetworkConfig(), FirestoreConfig(), ProfileConfig()} {
		if !cfg.Jitter {
			t.Errorf("presets should enable jitter: %+v", cfg)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("presets should be valid, got: %v", err)
		}
	}
}

// TestConfigClone 测试配置副本的独立性
func TestConfigClone(t *testing.T) {
	orig := DefaultConfig()
	dup := orig.Clone()
	dup.MaxRetries = 99

	if orig.MaxRetries == 99 {
		t.Error("Clone should not share state with the original")
	}

	var nilCfg *Config
	if nilCfg.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

// ============================================================
// 自动重试测试
// ============================================================

// TestExecute_Success 测试首次成功的直接返回
func TestExecute_Success(t *testing.T) {
	h, sleeper := newTestHandler(t, testConfig())
	s := &script{result: "borrowed"}

	result, err := h.Execute(context.Background(), s.op)
	if err != nil {
		t.Fatalf("Execute should not return error, got: %v", err)
	}
	if result != "borrowed" {
		t.Errorf("expected result 'borrowed', got: %v", result)
	}
	if s.callCount() != 1 {
		t.Errorf("expected exactly 1 call, got: %d", s.callCount())
	}
	if len(sleeper.recorded()) != 0 {
		t.Errorf("no backoff expected on first-try success, got: %v", sleeper.recorded())
	}
}

// TestExecute_NilOperation 测试空操作
func TestExecute_NilOperation(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())

	_, err := h.Execute(context.Background(), nil)
	if !errx.Is(err, ErrNoRetryableOperation) {
		t.Errorf("expected ErrNoRetryableOperation, got: %v", err)
	}
}

// TestExecute_RetriesThenSucceeds 测试失败一次后重试成功
func TestExecute_RetriesThenSucceeds(t *testing.T) {
	h, sleeper := newTestHandler(t, testConfig())
	s := &script{failures: 1, err: errors.New("network request failed"), result: "ok"}

	result, err := h.Execute(context.Background(), s.op,
		WithInfo(classify.Info{Operation: "borrow_submit"}))
	if err != nil {
		t.Fatalf("Execute should recover after one retry, got: %v", err)
	}
	if result != "ok" {
		t.Errorf("expected result 'ok', got: %v", result)
	}
	if s.callCount() != 2 {
		t.Errorf("expected 2 calls, got: %d", s.callCount())
	}
	if len(sleeper.recorded()) != 1 {
		t.Errorf("expected 1 backoff, got: %v", sleeper.recorded())
	}
}

// TestExecute_NonRetryableFailsOnce 测试不可重试的错误一次终止
func TestExecute_NonRetryableFailsOnce(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())
	s := &script{failures: 10, err: errors.New("name is required")}

	_, err := h.Execute(context.Background(), s.op)
	if err == nil {
		t.Fatal("Execute should return the terminal error")
	}
	if s.callCount() != 1 {
		t.Errorf("non-retryable error should stop after 1 call, got: %d", s.callCount())
	}

	cls, ok := ClassificationFrom(err)
	if !ok {
		t.Fatalf("expected classification in error chain, got: %v", err)
	}
	if cls.Kind != classify.KindValidationRequired {
		t.Errorf("expected kind validation_required, got: %s", cls.Kind)
	}
}

// TestExecute_CriticalNotRetried 测试 critical 级别即使可重试也一次终止
func TestExecute_CriticalNotRetried(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())
	s := &script{failures: 10, err: errors.New("fetch failed")}

	_, err := h.Execute(context.Background(), s.op,
		WithInfo(classify.Info{Offline: true}))
	if err == nil {
		t.Fatal("Execute should return the terminal error")
	}
	if s.callCount() != 1 {
		t.Errorf("critical failure should stop after 1 call, got: %d", s.callCount())
	}

	cls, _ := ClassificationFrom(err)
	if cls.Kind != classify.KindNetworkOffline {
		t.Errorf("expected kind network_offline, got: %s", cls.Kind)
	}
	if !cls.Retryable {
		t.Error("offline classification itself stays retryable, only the loop refuses it")
	}
}

// TestExecute_ExhaustsRetries 测试重试耗尽后的终端失败
func TestExecute_ExhaustsRetries(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())
	s := &script{failures: 10, err: errors.New("network request failed")}

	_, err := h.Execute(context.Background(), s.op)
	if err == nil {
		t.Fatal("Execute should return the terminal error")
	}
	if s.callCount() != 3 {
		t.Errorf("expected 3 calls with MaxRetries=3, got: %d", s.callCount())
	}

	var re *Error
	if !errx.As(err, &re) {
		t.Fatalf("expected *Error, got: %T", err)
	}
	if re.Classification.Kind != classify.KindNetwork {
		t.Errorf("expected kind network, got: %s", re.Classification.Kind)
	}
}

// TestExecute_ErrorChainReachesCause 测试终端错误链可达原始错误
func TestExecute_ErrorChainReachesCause(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())
	cause := errors.New("network request failed")
	s := &script{failures: 10, err: cause}

	_, err := h.Execute(context.Background(), s.op)
	if !errx.Is(err, cause) {
		t.Errorf("error chain should reach the original error, got: %v", err)
	}
}

// TestExecute_ClassifierBudgetCapsPolicy 测试分类建议低于策略上限时生效
func TestExecute_ClassifierBudgetCapsPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 10
	h, _ := newTestHandler(t, cfg)

	// network 类错误的分类建议上限是 3 次
	s := &script{failures: 20, err: errors.New("network request failed")}
	_, err := h.Execute(context.Background(), s.op)
	if err == nil {
		t.Fatal("Execute should return the terminal error")
	}
	if s.callCount() != 3 {
		t.Errorf("classifier budget should cap attempts at 3, got: %d", s.callCount())
	}
}

// TestExecute_PolicyCapsClassifierBudget 测试策略上限低于分类建议时生效
func TestExecute_PolicyCapsClassifierBudget(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 2
	h, _ := newTestHandler(t, cfg)

	// firestore_unavailable 的分类建议上限是 5 次
	s := &script{failures: 20, err: status.Error(codes.Unavailable, "backend down")}
	_, err := h.Execute(context.Background(), s.op)
	if err == nil {
		t.Fatal("Execute should return the terminal error")
	}
	if s.callCount() != 2 {
		t.Errorf("policy should cap attempts at 2, got: %d", s.callCount())
	}
}

// TestExecute_BackoffDelays 测试分类建议延迟的指数退避与上限
func TestExecute_BackoffDelays(t *testing.T) {
	h, sleeper := newTestHandler(t, testConfig())

	// network 类错误的分类建议基础延迟是 2s，倍率 2.0，上限 3s
	s := &script{failures: 10, err: errors.New("network request failed")}
	_, _ = h.Execute(context.Background(), s.op)

	want := []time.Duration{2 * time.Second, 3 * time.Second}
	got := sleeper.recorded()
	if len(got) != len(want) {
		t.Fatalf("expected %d backoffs, got: %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("backoff %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

// TestExecute_PolicyBaseDelay 测试分类无建议延迟时回落到策略配置
func TestExecute_PolicyBaseDelay(t *testing.T) {
	stub := &stubClassifier{cls: classify.Classification{
		Category:   classify.CategoryUnknown,
		Kind:       classify.Kind("stub"),
		Severity:   classify.SeverityMedium,
		Retryable:  true,
		MaxRetries: 5,
	}}
	h, sleeper := newTestHandler(t, testConfig(), WithClassifier(stub))

	s := &script{failures: 10, err: errors.New("boom")}
	_, _ = h.Execute(context.Background(), s.op)

	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}
	got := sleeper.recorded()
	if len(got) != len(want) {
		t.Fatalf("expected %d backoffs, got: %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("backoff %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

// TestExecute_Observer 测试重试观察回调
func TestExecute_Observer(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())
	s := &script{failures: 2, err: errors.New("network request failed"), result: "ok"}

	type step struct {
		next int
		kind classify.Kind
	}
	var steps []step

	_, err := h.Execute(context.Background(), s.op,
		WithObserver(func(nextAttempt int, cls classify.Classification) {
			steps = append(steps, step{nextAttempt, cls.Kind})
		}))
	if err != nil {
		t.Fatalf("Execute should recover, got: %v", err)
	}

	want := []step{{2, classify.KindNetwork}, {3, classify.KindNetwork}}
	if len(steps) != len(want) {
		t.Fatalf("expected %d observer calls, got: %+v", len(want), steps)
	}
	for i, w := range want {
		if steps[i] != w {
			t.Errorf("step %d: got %+v, want %+v", i, steps[i], w)
		}
	}
}

// TestExecute_WithPolicy 测试按调用覆盖重试策略
func TestExecute_WithPolicy(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())

	s := &script{failures: 10, err: errors.New("network request failed")}
	_, err := h.Execute(context.Background(), s.op,
		WithPolicy(&Config{MaxRetries: 1, BaseDelay: time.Millisecond}))
	if err == nil {
		t.Fatal("Execute should return the terminal error")
	}
	if s.callCount() != 1 {
		t.Errorf("per-call policy should cap attempts at 1, got: %d", s.callCount())
	}
}

// TestExecute_WithPolicyInvalid 测试非法的按调用策略被拒绝
func TestExecute_WithPolicyInvalid(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())

	s := &script{result: "ok"}
	_, err := h.Execute(context.Background(), s.op,
		WithPolicy(&Config{MaxRetries: -1}))
	if !errx.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got: %v", err)
	}
	if s.callCount() != 0 {
		t.Errorf("operation should not run with an invalid policy, got %d calls", s.callCount())
	}
}

// TestExecute_RetryBudget 测试重试预算耗尽
func TestExecute_RetryBudget(t *testing.T) {
	h, _ := newTestHandler(t, testConfig(),
		WithRetryBudget(rate.Every(time.Hour), 1))

	s := &script{failures: 10, err: errors.New("network request failed")}
	_, err := h.Execute(context.Background(), s.op)
	if !errx.Is(err, ErrBudgetExhausted) {
		t.Fatalf("expected ErrBudgetExhausted, got: %v", err)
	}
	if s.callCount() != 2 {
		t.Errorf("expected 2 calls before budget ran out, got: %d", s.callCount())
	}

	// 预算错误仍携带分类结论
	cls, ok := ClassificationFrom(err)
	if !ok || cls.Kind != classify.KindNetwork {
		t.Errorf("budget error should still carry the classification, got: %v", err)
	}
}

// TestExecute_ContextCanceled 测试取消的上下文直接返回
func TestExecute_ContextCanceled(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &script{result: "ok"}
	_, err := h.Execute(ctx, s.op)
	if !errx.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got: %v", err)
	}
	if s.callCount() != 0 {
		t.Errorf("operation should not run on canceled context, got %d calls", s.callCount())
	}
}

// TestExecute_CanceledDuringBackoff 测试退避期间取消
func TestExecute_CanceledDuringBackoff(t *testing.T) {
	h, err := New(testConfig(), WithSleeper(func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}))
	if err != nil {
		t.Fatalf("New should not return error, got: %v", err)
	}

	s := &script{failures: 10, err: errors.New("network request failed")}
	_, err = h.Execute(context.Background(), s.op)
	if !errx.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got: %v", err)
	}
	if s.callCount() != 1 {
		t.Errorf("cancel during backoff should stop after 1 call, got: %d", s.callCount())
	}
}

// ============================================================
// 熔断联动测试
// ============================================================

// TestExecute_BreakerOpensAfterThreshold 测试连续合格失败触发熔断
func TestExecute_BreakerOpensAfterThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 1
	cfg.BreakerThreshold = 2
	h, _ := newTestHandler(t, cfg)

	s := &script{failures: 20, err: status.Error(codes.Unavailable, "storage down")}
	for i := 0; i < 2; i++ {
		if _, err := h.Execute(context.Background(), s.op); err == nil {
			t.Fatal("Execute should fail")
		}
	}

	st := h.BreakerStatus()
	if !st.Open || st.Failures != 2 {
		t.Fatalf("expected open breaker with 2 failures, got: %+v", st)
	}

	before := s.callCount()
	_, err := h.Execute(context.Background(), s.op)
	if !errx.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got: %v", err)
	}
	if s.callCount() != before {
		t.Errorf("open breaker should reject without invoking the operation")
	}
}

// TestExecute_LowSeverityDoesNotTrip 测试低严重度失败不计入熔断
func TestExecute_LowSeverityDoesNotTrip(t *testing.T) {
	cfg := testConfig()
	cfg.BreakerThreshold = 2
	h, _ := newTestHandler(t, cfg)

	s := &script{failures: 20, err: errors.New("name is required")}
	for i := 0; i < 5; i++ {
		_, _ = h.Execute(context.Background(), s.op)
	}

	st := h.BreakerStatus()
	if st.Open || st.Failures != 0 {
		t.Errorf("validation failures should not move the breaker, got: %+v", st)
	}
}

// TestExecute_BreakerRecovery 测试冷却后半开探测成功恢复
func TestExecute_BreakerRecovery(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 1
	cfg.BreakerThreshold = 1
	cfg.BreakerTimeout = 10 * time.Second
	clock := testkit.NewClock()
	h, _ := newTestHandler(t, cfg, WithClock(clock.Now))

	failing := &script{failures: 20, err: status.Error(codes.Unavailable, "storage down")}
	if _, err := h.Execute(context.Background(), failing.op); err == nil {
		t.Fatal("Execute should fail")
	}
	if st := h.BreakerStatus(); !st.Open {
		t.Fatalf("expected open breaker, got: %+v", st)
	}

	// 冷却未结束时拒绝
	healthy := &script{result: "ok"}
	if _, err := h.Execute(context.Background(), healthy.op); !errx.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen before cooldown, got: %v", err)
	}
	if healthy.callCount() != 0 {
		t.Fatal("operation should not run while the breaker is open")
	}

	// 冷却结束后放行探测
	clock.Advance(10 * time.Second)
	result, err := h.Execute(context.Background(), healthy.op)
	if err != nil {
		t.Fatalf("probe should succeed after cooldown, got: %v", err)
	}
	if result != "ok" {
		t.Errorf("expected result 'ok', got: %v", result)
	}

	st := h.BreakerStatus()
	if st.State != StateClosed || st.Failures != 0 {
		t.Errorf("successful probe should reset the breaker, got: %+v", st)
	}
}

// TestExecute_HalfOpenFailureReopens 测试半开探测失败后重新熔断
func TestExecute_HalfOpenFailureReopens(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 1
	cfg.BreakerThreshold = 1
	cfg.BreakerTimeout = 10 * time.Second
	clock := testkit.NewClock()
	h, _ := newTestHandler(t, cfg, WithClock(clock.Now))

	failing := &script{failures: 20, err: status.Error(codes.Unavailable, "storage down")}
	_, _ = h.Execute(context.Background(), failing.op)

	clock.Advance(10 * time.Second)
	if _, err := h.Execute(context.Background(), failing.op); errx.Is(err, ErrCircuitOpen) {
		t.Fatal("probe after cooldown should reach the operation")
	}
	if st := h.BreakerStatus(); st.State != StateOpen {
		t.Fatalf("failed probe should reopen the breaker, got: %+v", st)
	}

	// 重新打开后的调用立即被拒绝
	before := failing.callCount()
	if _, err := h.Execute(context.Background(), failing.op); !errx.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after reopen, got: %v", err)
	}
	if failing.callCount() != before {
		t.Error("reopened breaker should reject without invoking the operation")
	}
}

// TestExecute_SuccessResetsFailures 测试成功清零失败计数
func TestExecute_SuccessResetsFailures(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 1
	cfg.BreakerThreshold = 3
	h, _ := newTestHandler(t, cfg)

	failing := &script{failures: 20, err: status.Error(codes.Unavailable, "storage down")}
	_, _ = h.Execute(context.Background(), failing.op)
	if st := h.BreakerStatus(); st.Failures != 1 {
		t.Fatalf("expected 1 qualified failure, got: %+v", st)
	}

	healthy := &script{result: "ok"}
	if _, err := h.Execute(context.Background(), healthy.op); err != nil {
		t.Fatalf("Execute should succeed, got: %v", err)
	}
	if st := h.BreakerStatus(); st.Failures != 0 {
		t.Errorf("success should reset the failure count, got: %+v", st)
	}
}

// ============================================================
// 泛型封装测试
// ============================================================

// TestDo 测试带类型的执行封装
func TestDo(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())

	got, err := Do(context.Background(), h, func(ctx context.Context) (string, error) {
		return "borrowed", nil
	})
	if err != nil {
		t.Fatalf("Do should not return error, got: %v", err)
	}
	if got != "borrowed" {
		t.Errorf("expected 'borrowed', got: %q", got)
	}
}

// TestDo_Failure 测试封装的失败路径返回零值
func TestDo_Failure(t *testing.T) {
	h, _ := newTestHandler(t, testConfig())

	got, err := Do(context.Background(), h, func(ctx context.Context) (int, error) {
		return 42, errors.New("name is required")
	})
	if err == nil {
		t.Fatal("Do should return the terminal error")
	}
	if got != 0 {
		t.Errorf("expected zero value on failure, got: %d", got)
	}

	var re *Error
	if !errx.As(err, &re) {
		t.Errorf("expected *Error, got: %T", err)
	}
}

// ============================================================
// 错误类型测试
// ============================================================

// TestClassificationFrom 测试从错误链提取分类结论
func TestClassificationFrom(t *testing.T) {
	if _, ok := ClassificationFrom(nil); ok {
		t.Error("nil error should carry no classification")
	}
	if _, ok := ClassificationFrom(errors.New("plain")); ok {
		t.Error("plain error should carry no classification")
	}

	wrapped := errx.Wrap(&Error{Classification: classify.Classification{Kind: classify.KindNetworkTimeout}}, "outer")
	cls, ok := ClassificationFrom(wrapped)
	if !ok || cls.Kind != classify.KindNetworkTimeout {
		t.Errorf("expected network_timeout through the wrap, got: %+v ok=%v", cls, ok)
	}
}

// TestErrorMessage 测试终端错误的消息格式
func TestErrorMessage(t *testing.T) {
	cause := errors.New("connection refused")
	e := &Error{Classification: classify.Classification{Kind: classify.KindNetwork, Cause: cause}}
	if got := e.Error(); got != "retry: network: connection refused" {
		t.Errorf("unexpected message: %q", got)
	}
	if !errx.Is(e, cause) {
		t.Error("Unwrap should reach the cause")
	}

	bare := &Error{Classification: classify.Classification{Kind: classify.KindUnknown}}
	if got := bare.Error(); got != "retry: unknown" {
		t.Errorf("unexpected message without cause: %q", got)
	}
}
