package testkit

import (
	"sync"
	"time"
)

// Clock 手动推进的测试时钟。
// 把 Now 方法注入被测组件后，测试可以精确控制时间流逝，
// 不需要真实等待冷却或超时。
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock 返回固定起点的测试时钟
func NewClock() *Clock {
	return NewClockAt(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
}

// NewClockAt 返回以 start 为当前时刻的测试时钟
func NewClockAt(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now 返回当前时刻，可直接作为组件的时钟函数注入
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance 将时钟向前推进 d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set 将时钟设置到指定时刻
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
