package metrics

// Label 指标标签，为指标添加维度信息。
// 注意高基数标签（如每请求唯一的 ID）会拖垮监控后端，标签值应相对稳定。
type Label struct {
	// Key 标签键，建议使用小写字母、数字和下划线
	Key string

	// Value 标签值
	Value string
}

// L 便捷构造函数，创建一个 Label 实例。
//
// 使用示例：
//
//	counter.Inc(ctx, metrics.L("policy", "random"))
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}
