package clog

import "io"

// ContextField 定义从 Context 中提取字段的规则。
type ContextField struct {
	Key       any    // Context 中存储的键
	FieldName string // 日志中的字段名
}

// Option 函数式选项，用于配置 Logger 实例。
type Option func(*options)

// options 内部选项结构。
type options struct {
	namespaceParts []string
	contextFields  []ContextField
	writer         io.Writer // 覆盖 Config.Output，测试用
}

// WithNamespace 设置日志命名空间，支持多级。
// 命名空间以 "." 连接，作为日志中的 namespace 字段。
func WithNamespace(parts ...string) Option {
	return func(o *options) {
		o.namespaceParts = append(o.namespaceParts, parts...)
	}
}

// WithContextField 添加 Context 字段提取规则。
//
// 示例：
//
//	clog.WithContextField("trace_id", "trace_id")
func WithContextField(key any, fieldName string) Option {
	return func(o *options) {
		o.contextFields = append(o.contextFields, ContextField{
			Key:       key,
			FieldName: fieldName,
		})
	}
}

// WithWriter 将日志输出重定向到指定 writer，优先于 Config.Output。
// 主要用于测试断言日志内容。
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// applyOptions 应用所有选项并返回配置（内部使用）。
func applyOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
