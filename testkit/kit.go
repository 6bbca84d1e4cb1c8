// Package testkit 提供 aegis 各组件测试共用的基础设施。
//
// ## 基本使用
//
//	func TestSomething(t *testing.T) {
//	    kit := testkit.NewKit(t)
//	    handler, err := retry.New(nil, retry.WithLogger(kit.Logger), retry.WithMeter(kit.Meter))
//	    ...
//	}
package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/chaiyo/aegis/logx"
	"github.com/chaiyo/aegis/metrics"
)

// Kit 包含通用的测试依赖
type Kit struct {
	Ctx    context.Context
	Logger logx.Logger
	Meter  metrics.Meter
}

// NewKit 返回一个包含默认依赖的测试工具包
func NewKit(t *testing.T) *Kit {
	return &Kit{
		Ctx:    context.Background(),
		Logger: NewLogger(),
		Meter:  NewMeter(),
	}
}

// NewLogger 返回一个用于测试的 logger
// 控制台格式输出到标准错误，适合本地调试
func NewLogger() logx.Logger {
	logger, err := logx.New(&logx.Config{
		Level:  "debug",
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		return logx.Discard()
	}
	return logger
}

// NewMeter 返回一个用于测试的 meter
// 使用 Noop 模式，不实际输出指标
func NewMeter() metrics.Meter {
	meter, err := metrics.New(&metrics.Config{Enabled: false})
	if err != nil {
		return metrics.Noop()
	}
	return meter
}

// NewContext 返回一个带有超时的测试上下文
func NewContext(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// NewID 返回一个唯一的测试 ID (UUID v4 前 8 位)
// 用于生成唯一的操作标识或配置键后缀，避免测试间数据冲突
func NewID() string {
	return uuid.New().String()[0:8]
}
