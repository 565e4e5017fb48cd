package idgen

import (
	"github.com/ceyewan/flowid/clog"
	"github.com/ceyewan/flowid/metrics"
)

// Option 生成器初始化选项函数
type Option func(*Options)

// Options 生成器初始化选项配置
type Options struct {
	Logger clog.Logger
	Meter  metrics.Meter
	Clock  Clock
}

// WithLogger 设置 Logger
func WithLogger(logger clog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMeter 设置 Meter
func WithMeter(meter metrics.Meter) Option {
	return func(o *Options) {
		o.Meter = meter
	}
}

// WithClock 替换时间源，主要用于测试注入受控时钟
func WithClock(clock Clock) Option {
	return func(o *Options) {
		o.Clock = clock
	}
}

// WorkerOption 注册 Worker 时的选项函数
type WorkerOption func(*workerOptions)

type workerOptions struct {
	initialSequence int64
}

// WithInitialSequence 设置 Worker 的初始序列号，默认 0
func WithInitialSequence(seq int64) WorkerOption {
	return func(o *workerOptions) {
		o.initialSequence = seq
	}
}
