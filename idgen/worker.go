package idgen

import (
	"sync"
	"time"
)

// neverIssued lastTimestamp 的哨兵值，表示该 Worker 从未发过号
const neverIssued = -1

// Worker 绑定一个 (process_id, worker_id) 身份对的发号单元。
// 由 Generator 在注册时创建，进程生命周期内不销毁。
//
// 可变状态（lastTimestamp、sequence）由内部互斥锁保护，
// NextID 的读取-校验-推进是一个原子单元。
type Worker struct {
	mu sync.Mutex

	layout Layout
	clock  Clock

	processID int64
	workerID  int64

	sequence      int64
	lastTimestamp int64
}

// newWorker 创建 Worker（仅由 Generator.RegisterWorker 调用）
func newWorker(layout Layout, clock Clock, workerID, processID, initialSequence int64) *Worker {
	return &Worker{
		layout:        layout,
		clock:         clock,
		processID:     processID,
		workerID:      workerID,
		sequence:      initialSequence,
		lastTimestamp: neverIssued,
	}
}

// ProcessID 返回该 Worker 的进程 ID
func (w *Worker) ProcessID() int64 { return w.processID }

// WorkerID 返回该 Worker 的 Worker ID
func (w *Worker) WorkerID() int64 { return w.workerID }

// NextID 生成一个 ID。
//
// 时钟严格早于上次发号时刻时返回 *ClockDriftError，且不改变任何状态；
// 等于上次时刻是合法的（同一毫秒内的多次请求）。
// 序列号达到位宽上限后静默回绕：同一毫秒内请求数超过 maxIncrement+1
// 时会复用序列号，这是文档化的可接受碰撞风险，不是错误。
func (w *Worker) NextID() (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	if now < w.lastTimestamp {
		drift := time.Duration(w.lastTimestamp-now) * time.Millisecond
		return 0, &ClockDriftError{Drift: drift}
	}

	w.sequence = (w.sequence + 1) & w.layout.maxIncrement
	w.lastTimestamp = now

	return w.layout.Compose(Fields{
		TimestampMs: now,
		ProcessID:   w.processID,
		WorkerID:    w.workerID,
		Sequence:    w.sequence,
	}), nil
}

// snapshot 返回当前可变状态，测试用
func (w *Worker) snapshot() (lastTimestamp, sequence int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastTimestamp, w.sequence
}
