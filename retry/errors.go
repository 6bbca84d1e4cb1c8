package retry

import (
	"fmt"

	"github.com/chaiyo/aegis/classify"
	"github.com/chaiyo/aegis/errx"
)

// 预定义错误
var (
	// ErrCircuitOpen 熔断器打开，调用被短路（未触碰底层操作）
	ErrCircuitOpen = errx.WithCode(
		errx.New("retry: circuit breaker is open"), "retry.circuit_open")

	// ErrNoRetryableOperation 没有可恢复的操作（nil Token 或未绑定操作）
	ErrNoRetryableOperation = errx.WithCode(
		errx.New("retry: no retryable operation available"), "retry.no_operation")

	// ErrTokenInFlight 同一 Token 的恢复已在进行中
	ErrTokenInFlight = errx.WithCode(
		errx.New("retry: token resume already in flight"), "retry.token_in_flight")

	// ErrInvalidConfig 配置不合法
	ErrInvalidConfig = errx.WithCode(
		errx.New("retry: invalid config"), "retry.invalid_config")

	// ErrBudgetExhausted 重试预算耗尽，循环提前终止
	ErrBudgetExhausted = errx.WithCode(
		errx.New("retry: retry budget exhausted"), "retry.budget_exhausted")
)

// Error 重试终止后的分类错误。
//
// 携带完整的分类结论；Unwrap 返回原始错误，
// errx.Is / errx.As 可以穿透到被分类的错误本身。
type Error struct {
	Classification classify.Classification
}

func (e *Error) Error() string {
	if e.Classification.Cause == nil {
		return fmt.Sprintf("retry: %s", e.Classification.Kind)
	}
	return fmt.Sprintf("retry: %s: %v", e.Classification.Kind, e.Classification.Cause)
}

func (e *Error) Unwrap() error {
	return e.Classification.Cause
}

// ClassificationFrom 从错误链中提取分类结论。
// err 不是重试终端错误时返回零值与 false。
func ClassificationFrom(err error) (classify.Classification, bool) {
	var re *Error
	if errx.As(err, &re) {
		return re.Classification, true
	}
	return classify.Classification{}, false
}
