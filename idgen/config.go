package idgen

import (
	"github.com/ceyewan/flowid/xerrors"
)

// ========================================
// 选择策略 (Selection Policy)
// ========================================

// Policy Worker 轮转策略，决定多 Worker 时每次请求由哪个 Worker 服务
type Policy string

const (
	// PolicyRandom 随机轮转：每一轮内以随机顺序使用每个 Worker 恰好一次，
	// 一轮用尽后重新开始。公平性强于纯随机采样，弱于严格轮询。
	PolicyRandom Policy = "random"

	// PolicyRoundRobin 严格轮询：按注册顺序循环使用 Worker
	PolicyRoundRobin Policy = "round_robin"
)

// ========================================
// 配置结构 (Configuration)
// ========================================

// DefaultEpoch 默认纪元：2020-01-01T00:00:00Z（Unix 秒）
const DefaultEpoch int64 = 1577836800

// Config ID 生成器配置
//
// 位宽决定各字段的取值范围，一个命名空间内所有进程必须使用相同的配置，
// 否则无法解码。Epoch 一经选定不可更改。
type Config struct {
	// Epoch 纪元（Unix 秒），编码前从时间戳中减去。默认 DefaultEpoch
	Epoch int64 `yaml:"epoch" json:"epoch" mapstructure:"epoch"`

	// ProcessIDBits 进程 ID 字段位宽，默认 5（最大 31）
	ProcessIDBits int `yaml:"process_id_bits" json:"process_id_bits" mapstructure:"process_id_bits"`

	// WorkerIDBits Worker ID 字段位宽，默认 5（最大 31）
	WorkerIDBits int `yaml:"worker_id_bits" json:"worker_id_bits" mapstructure:"worker_id_bits"`

	// IncrementBits 毫秒内序列号字段位宽，默认 12（每毫秒 4096 个）
	IncrementBits int `yaml:"increment_bits" json:"increment_bits" mapstructure:"increment_bits"`

	// Policy 轮转策略: "random"（默认）| "round_robin"
	Policy Policy `yaml:"policy" json:"policy" mapstructure:"policy"`
}

// setDefaults 填充零值字段。
// 位宽 0 视为未配置，取默认值；不支持真正的 0 位宽字段。
func (c *Config) setDefaults() {
	if c.Epoch == 0 {
		c.Epoch = DefaultEpoch
	}
	if c.ProcessIDBits == 0 {
		c.ProcessIDBits = 5
	}
	if c.WorkerIDBits == 0 {
		c.WorkerIDBits = 5
	}
	if c.IncrementBits == 0 {
		c.IncrementBits = 12
	}
	if c.Policy == "" {
		c.Policy = PolicyRandom
	}
}

func (c *Config) validate() error {
	if c.Epoch < 0 {
		return xerrors.WithCode(ErrInvalidInput, "epoch_negative")
	}
	if c.ProcessIDBits < 0 || c.WorkerIDBits < 0 || c.IncrementBits < 0 {
		return xerrors.WithCode(ErrInvalidInput, "bit_width_negative")
	}

	// 时间戳字段占用剩余位宽，至少需要 41 bit 才能覆盖约 69 年
	total := c.ProcessIDBits + c.WorkerIDBits + c.IncrementBits
	if total > idBits-minTimestampBits {
		return xerrors.WithCode(ErrInvalidInput, "bit_widths_exceed_id_width")
	}

	if c.Policy != PolicyRandom && c.Policy != PolicyRoundRobin {
		return xerrors.WithCode(ErrInvalidInput, "unsupported_policy")
	}
	return nil
}

const (
	// idBits 生成的 ID 总位宽
	idBits = 64

	// minTimestampBits 时间戳字段的最小位宽
	minTimestampBits = 41
)
