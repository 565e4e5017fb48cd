// Package idgen 提供免协调的分布式 ID 生成能力。
//
// 核心是 Snowflake 风格的 64 位整数 ID：毫秒时间戳、进程 ID、Worker ID
// 和毫秒内序列号按配置的位宽打包。同一命名空间内只要 (process_id, worker_id)
// 身份对互不重叠，各进程无需任何通信即可保证全局唯一。身份对的互斥分配
// 是部署侧的运维责任，本包不在运行时强制。
//
// 使用示例:
//
//	gen, _ := idgen.NewGenerator(&idgen.Config{Epoch: 1577836800})
//	gen.RegisterWorker(1, 0)
//	id, _ := gen.NextID()
//	fields := gen.Decode(id)
package idgen

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/ceyewan/flowid/clog"
	"github.com/ceyewan/flowid/metrics"
	"github.com/ceyewan/flowid/xerrors"
)

// workerKey Worker 的注册身份
type workerKey struct {
	processID int64
	workerID  int64
}

// Generator ID 生成器。
// 持有全局位布局配置、Worker 注册表和轮转策略。
//
// 注册表和轮转状态由生成器级互斥锁保护，与各 Worker 的内部锁相互独立：
// 通过 FindWorker 直接驱动某个 Worker 不会与 NextID 的轮转互相阻塞。
type Generator struct {
	layout Layout
	policy Policy
	clock  Clock
	logger clog.Logger

	issuedTotal metrics.Counter
	driftTotal  metrics.Counter

	mu      sync.RWMutex
	workers []*Worker           // 全量注册表，注册后不删除、不重复
	index   map[workerKey]*Worker
	pool    []int // random 策略的本轮剩余 Worker 下标
	cursor  int   // round_robin 策略的游标
}

// NewGenerator 创建 ID 生成器。
//
// cfg 为 nil 时使用全默认配置。创建后还需要至少注册一个 Worker
// 才能发号。
//
// 使用示例:
//
//	gen, err := idgen.NewGenerator(&idgen.Config{
//	    Epoch:  1577836800,
//	    Policy: idgen.PolicyRoundRobin,
//	}, idgen.WithLogger(logger))
func NewGenerator(cfg *Config, opts ...Option) (*Generator, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opt := Options{
		Logger: clog.Discard(),
		Meter:  metrics.Discard(),
		Clock:  SystemClock(),
	}
	for _, o := range opts {
		o(&opt)
	}
	if opt.Logger == nil {
		opt.Logger = clog.Discard()
	}
	if opt.Meter == nil {
		opt.Meter = metrics.Discard()
	}
	if opt.Clock == nil {
		opt.Clock = SystemClock()
	}
	logger := opt.Logger.WithNamespace("idgen")

	issued, err := opt.Meter.Counter(MetricIDsIssued, "已生成的 ID 总数")
	if err != nil {
		return nil, xerrors.Wrap(err, "idgen: create issued counter")
	}
	drift, err := opt.Meter.Counter(MetricClockDrift, "检测到时钟回拨的次数")
	if err != nil {
		return nil, xerrors.Wrap(err, "idgen: create drift counter")
	}

	g := &Generator{
		layout:      newLayout(cfg),
		policy:      cfg.Policy,
		clock:       opt.Clock,
		logger:      logger,
		issuedTotal: issued,
		driftTotal:  drift,
		index:       make(map[workerKey]*Worker),
	}

	logger.Info("id generator created",
		clog.Int64("epoch", cfg.Epoch),
		clog.Int("process_id_bits", cfg.ProcessIDBits),
		clog.Int("worker_id_bits", cfg.WorkerIDBits),
		clog.Int("increment_bits", cfg.IncrementBits),
		clog.String("policy", string(cfg.Policy)),
	)

	return g, nil
}

// Layout 返回生成器的位布局，可用于独立解码
func (g *Generator) Layout() Layout {
	return g.layout
}

// RegisterWorker 注册一个 (worker_id, process_id) 身份对并返回其 Worker。
//
// 身份越界或重复注册返回 ErrInvalidInput / ErrWorkerExists。
// Worker 一经注册即进入全量注册表和当前轮转池，进程生命周期内不移除。
func (g *Generator) RegisterWorker(workerID, processID int64, opts ...WorkerOption) (*Worker, error) {
	if workerID < 0 || workerID > g.layout.maxWorkerID {
		return nil, xerrors.WithCode(ErrInvalidInput, "worker_id_out_of_range")
	}
	if processID < 0 || processID > g.layout.maxProcessID {
		return nil, xerrors.WithCode(ErrInvalidInput, "process_id_out_of_range")
	}

	wo := workerOptions{}
	for _, o := range opts {
		o(&wo)
	}
	if wo.initialSequence < 0 || wo.initialSequence > g.layout.maxIncrement {
		return nil, xerrors.WithCode(ErrInvalidInput, "initial_sequence_out_of_range")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := workerKey{processID: processID, workerID: workerID}
	if _, ok := g.index[key]; ok {
		return nil, xerrors.Wrapf(ErrWorkerExists, "process_id=%d worker_id=%d", processID, workerID)
	}

	w := newWorker(g.layout, g.clock, workerID, processID, wo.initialSequence)
	g.workers = append(g.workers, w)
	g.index[key] = w
	// 新 Worker 立即加入当前轮次
	g.pool = append(g.pool, len(g.workers)-1)

	g.logger.Info("worker registered",
		clog.Int64("process_id", processID),
		clog.Int64("worker_id", workerID),
		clog.Int("total_workers", len(g.workers)),
	)

	return w, nil
}

// NextID 按轮转策略选取一个 Worker 并生成 ID。
//
// 注册表为空时返回 ErrNoWorkers；Worker 的时钟回拨错误原样传递，
// 调用方可通过 *ClockDriftError 获知最早安全重试时间。
func (g *Generator) NextID() (uint64, error) {
	w, err := g.pick()
	if err != nil {
		return 0, err
	}

	id, err := w.NextID()
	if err != nil {
		g.driftTotal.Inc(context.Background())
		return 0, err
	}

	g.issuedTotal.Inc(context.Background(), metrics.L("policy", string(g.policy)))
	return id, nil
}

// pick 按策略选取下一个 Worker，只持有生成器锁，不触碰 Worker 锁
func (g *Generator) pick() (*Worker, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.workers) == 0 {
		return nil, ErrNoWorkers
	}

	switch g.policy {
	case PolicyRoundRobin:
		// 先取游标处的 Worker，再推进游标
		w := g.workers[g.cursor]
		g.cursor = (g.cursor + 1) % len(g.workers)
		return w, nil

	default: // PolicyRandom
		// 本轮池空则重新装满，保证每轮内每个 Worker 恰好使用一次
		if len(g.pool) == 0 {
			if cap(g.pool) < len(g.workers) {
				g.pool = make([]int, len(g.workers))
			} else {
				g.pool = g.pool[:len(g.workers)]
			}
			for i := range g.pool {
				g.pool[i] = i
			}
		}
		// 均匀随机选取后交换删除，避免每次调用的 O(n) 洗牌
		i := rand.IntN(len(g.pool))
		idx := g.pool[i]
		g.pool[i] = g.pool[len(g.pool)-1]
		g.pool = g.pool[:len(g.pool)-1]
		return g.workers[idx], nil
	}
}

// FindWorker 按身份对查找已注册的 Worker，无副作用
func (g *Generator) FindWorker(workerID, processID int64) (*Worker, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	w, ok := g.index[workerKey{processID: processID, workerID: workerID}]
	return w, ok
}

// Workers 返回全量注册表的快照
func (g *Generator) Workers() []*Worker {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Worker, len(g.workers))
	copy(out, g.workers)
	return out
}

// Decode 用生成器自身的位布局解码一个 ID
func (g *Generator) Decode(id uint64) Fields {
	return g.layout.Decode(id)
}
