package idgen

import (
	"fmt"
	"time"

	"github.com/ceyewan/flowid/xerrors"
)

var (
	// ErrInvalidInput 配置或注册参数无效
	ErrInvalidInput = xerrors.New("idgen: invalid input")

	// ErrWorkerExists (process_id, worker_id) 已被注册
	ErrWorkerExists = xerrors.New("idgen: worker already registered")

	// ErrNoWorkers 在没有任何已注册 Worker 的生成器上调用了 NextID
	ErrNoWorkers = xerrors.New("idgen: no workers registered")

	// ErrClockBackwards 墙钟相对 Worker 上次发号时刻发生了回拨
	ErrClockBackwards = xerrors.New("idgen: clock moved backwards")
)

// ClockDriftError 时钟回拨错误，携带回拨幅度。
// 调用方应等待至少 Drift 后再重试，核心不会内部等待或自动重试。
type ClockDriftError struct {
	// Drift 回拨幅度，也是最早安全重试时间
	Drift time.Duration
}

func (e *ClockDriftError) Error() string {
	return fmt.Sprintf("idgen: clock moved backwards, resume after %dms", e.Drift.Milliseconds())
}

func (e *ClockDriftError) Unwrap() error {
	return ErrClockBackwards
}
