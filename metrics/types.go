// Package metrics 为 flowid 提供统一的指标收集能力。
// 基于 OpenTelemetry 标准构建，提供 Counter、Gauge、Histogram 三类指标接口，
// 并内置 Prometheus HTTP 端点用于指标暴露。
//
// 快速开始：
//
//	cfg := &metrics.Config{
//	    Enabled:     true,
//	    ServiceName: "id-service",
//	    Version:     "v1.0.0",
//	    Port:        9090,
//	    Path:        "/metrics",
//	}
//
//	meter, err := metrics.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer meter.Shutdown(ctx)
//
//	counter, _ := meter.Counter("flowid_ids_issued_total", "已生成的 ID 总数")
//	counter.Inc(ctx, metrics.L("policy", "random"))
package metrics

import "context"

// Counter 计数器接口，记录只增不减的累计值。
type Counter interface {
	// Inc 将计数器增加 1
	Inc(ctx context.Context, labels ...Label)

	// Add 将计数器增加给定的值，val 应为非负数
	Add(ctx context.Context, val float64, labels ...Label)
}

// Gauge 仪表盘接口，记录可增可减的瞬时值。
type Gauge interface {
	// Set 将 gauge 设置为给定的值
	Set(ctx context.Context, val float64, labels ...Label)

	// Inc 将 gauge 增加 1
	Inc(ctx context.Context, labels ...Label)

	// Dec 将 gauge 减少 1
	Dec(ctx context.Context, labels ...Label)
}

// Histogram 直方图接口，记录值的分布情况。
type Histogram interface {
	// Record 记录一个观测值
	Record(ctx context.Context, val float64, labels ...Label)
}

// Meter 指标工厂接口。
type Meter interface {
	// Counter 创建或获取一个计数器
	Counter(name string, desc string, opts ...MetricOption) (Counter, error)

	// Gauge 创建或获取一个仪表盘
	Gauge(name string, desc string, opts ...MetricOption) (Gauge, error)

	// Histogram 创建或获取一个直方图
	Histogram(name string, desc string, opts ...MetricOption) (Histogram, error)

	// Shutdown 关闭 Meter 并刷新未导出的指标
	Shutdown(ctx context.Context) error
}

// MetricOption 单个指标的选项函数。
type MetricOption func(*MetricOptions)

// MetricOptions 单个指标的选项。
type MetricOptions struct {
	// Unit 指标单位，如 "ms"、"By"
	Unit string
}

// WithUnit 设置指标单位
func WithUnit(unit string) MetricOption {
	return func(o *MetricOptions) {
		o.Unit = unit
	}
}
