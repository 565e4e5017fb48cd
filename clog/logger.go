// Package clog 为 flowid 提供基于 slog 的结构化日志组件。
//
// 特性：
//   - 抽象接口，不暴露底层实现（slog）
//   - 支持层级命名空间，便于按组件归类日志
//   - 仅依赖 Go 标准库
//   - 采用函数式选项模式
//
// 基本使用：
//
//	logger, _ := clog.New(&clog.Config{
//	    Level:  "info",
//	    Format: "console",
//	    Output: "stdout",
//	})
//	logger.Info("Hello, World!", clog.String("key", "value"))
//
// 使用函数式选项：
//
//	logger, _ := clog.New(&clog.Config{Level: "info"},
//	    clog.WithNamespace("flowid", "idgen"),
//	    clog.WithContextField("trace_id", "trace_id"),
//	)
package clog

import "context"

// Logger 日志接口，提供结构化日志记录功能。
//
// 支持五个日志级别：Debug、Info、Warn、Error、Fatal，
// 每个级别都有带 Context 和不带 Context 的版本。
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// 带 Context 的日志级别方法，会提取通过 WithContextField 配置的字段
	DebugContext(ctx context.Context, msg string, fields ...Field)
	InfoContext(ctx context.Context, msg string, fields ...Field)
	WarnContext(ctx context.Context, msg string, fields ...Field)
	ErrorContext(ctx context.Context, msg string, fields ...Field)
	FatalContext(ctx context.Context, msg string, fields ...Field)

	// With 创建一个带有预设字段的子 Logger，预设字段出现在所有后续日志中
	With(fields ...Field) Logger

	// WithNamespace 创建一个扩展命名空间的子 Logger，
	// 新的部分会追加到现有命名空间之后，以 "." 连接
	WithNamespace(parts ...string) Logger

	// SetLevel 运行时调整日志级别，不需要重新创建 Logger
	SetLevel(level Level) error

	// Flush 强制同步缓冲区中的日志
	Flush()
}
