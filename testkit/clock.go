package testkit

import "sync"

// FakeClock 可手动控制的毫秒时钟，实现 idgen.Clock。
// 测试用它来构造同毫秒并发、时钟回拨等墙钟无法稳定复现的场景。
type FakeClock struct {
	mu  sync.Mutex
	now int64
}

// NewFakeClock 创建一个从 now（Unix 毫秒）开始的 FakeClock
func NewFakeClock(now int64) *FakeClock {
	return &FakeClock{now: now}
}

// Now 返回当前设定的时间（Unix 毫秒）
func (c *FakeClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set 将时钟设置为绝对时刻，允许向过去设置以模拟回拨
func (c *FakeClock) Set(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = ms
}

// Advance 将时钟前进 delta 毫秒
func (c *FakeClock) Advance(delta int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += delta
}
