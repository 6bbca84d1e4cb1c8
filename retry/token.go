package retry

import (
	"context"
	"sync/atomic"
)

// Token 手动重试的恢复凭据。
//
// ExecuteManual 失败时返回 Token，与错误并列而不是藏在错误里：
// 错误链保持干净，恢复能力作为独立的值交给调用方（通常是界面层）。
//
// Token 绑定失败时的操作、调用选项与所属 Handler。
// 同一 Token 同时只允许一次 Resume；Attempt 只在 Resume 结束后更新，
// 恢复进行中不应读取。
type Token struct {
	// Attempt 该操作已消耗的尝试次数（跨多次 Resume 累计）
	Attempt int

	// OperationID 操作的唯一标识，贯穿所有相关日志
	OperationID string

	handler  *handler
	op       Operation
	call     *callOptions
	policy   *Config
	inFlight atomic.Bool
}

// Resume 恢复执行绑定的操作，等价于所属 Handler 的 Resume(ctx, t)。
// 恢复走完整的自动重试流程：同一个熔断器、同样的调用选项。
func (t *Token) Resume(ctx context.Context) (interface{}, error) {
	if t == nil || t.handler == nil {
		return nil, ErrNoRetryableOperation
	}
	return t.handler.Resume(ctx, t)
}
