package idgen

// Layout ID 的位布局，由配置的位宽派生，构造后不可变。
//
// 位布局（高位在前）：
//
//	[ timestamp_delta_ms | process_id | worker_id | sequence ]
//
// 时间戳占用除三个配置字段外的全部剩余位宽。
type Layout struct {
	epochMs int64

	maxProcessID int64
	maxWorkerID  int64
	maxIncrement int64

	workerShift    uint
	processShift   uint
	timestampShift uint
}

// newLayout 从已校验的配置派生位布局。
// 移位量由内向外累加：sequence 在最低位，timestamp 在最高位。
func newLayout(cfg *Config) Layout {
	workerShift := uint(cfg.IncrementBits)
	processShift := workerShift + uint(cfg.WorkerIDBits)
	timestampShift := processShift + uint(cfg.ProcessIDBits)

	return Layout{
		epochMs:        cfg.Epoch * 1000,
		maxProcessID:   1<<cfg.ProcessIDBits - 1,
		maxWorkerID:    1<<cfg.WorkerIDBits - 1,
		maxIncrement:   1<<cfg.IncrementBits - 1,
		workerShift:    workerShift,
		processShift:   processShift,
		timestampShift: timestampShift,
	}
}

// Fields 一个 ID 的全部组成字段。
type Fields struct {
	// TimestampMs 生成时刻（Unix 毫秒，已还原纪元偏移）
	TimestampMs int64

	// ProcessID 进程 ID
	ProcessID int64

	// WorkerID Worker ID
	WorkerID int64

	// Sequence 毫秒内序列号
	Sequence int64
}

// MaxProcessID 进程 ID 的最大合法值
func (l Layout) MaxProcessID() int64 { return l.maxProcessID }

// MaxWorkerID Worker ID 的最大合法值
func (l Layout) MaxWorkerID() int64 { return l.maxWorkerID }

// MaxIncrement 序列号的最大值，达到后回绕到 0
func (l Layout) MaxIncrement() int64 { return l.maxIncrement }

// EpochMs 纪元（Unix 毫秒）
func (l Layout) EpochMs() int64 { return l.epochMs }

// Compose 将各字段打包为一个 64 位 ID。
// 各字段必须在位宽范围内，越界的高位会污染相邻字段。
func (l Layout) Compose(f Fields) uint64 {
	delta := f.TimestampMs - l.epochMs
	return uint64(delta)<<l.timestampShift |
		uint64(f.ProcessID)<<l.processShift |
		uint64(f.WorkerID)<<l.workerShift |
		uint64(f.Sequence)
}

// Decode 将 ID 还原为各字段，与 Compose 互逆。
func (l Layout) Decode(id uint64) Fields {
	return Fields{
		TimestampMs: int64(id>>l.timestampShift) + l.epochMs,
		ProcessID:   int64(id>>l.processShift) & l.maxProcessID,
		WorkerID:    int64(id>>l.workerShift) & l.maxWorkerID,
		Sequence:    int64(id) & l.maxIncrement,
	}
}
