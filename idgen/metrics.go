package idgen

// 指标名称常量定义
const (
	// MetricIDsIssued 已生成的 ID 总数 (Counter)，带 policy 标签
	MetricIDsIssued = "flowid_idgen_ids_issued_total"

	// MetricClockDrift 检测到时钟回拨的次数 (Counter)
	MetricClockDrift = "flowid_idgen_clock_backwards_total"
)
