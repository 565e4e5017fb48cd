package idgen

import (
	"errors"
	"sync"
	"testing"

	"github.com/ceyewan/flowid/testkit"
)

// testEpoch 2020-01-01T00:00:00Z
const testEpoch int64 = 1577836800

// ========================================
// 配置与构造单元测试
// ========================================

func TestNewGenerator_Unit(t *testing.T) {
	tests := []struct {
		name        string
		cfg         *Config
		expectError bool
	}{
		{
			name:        "nil config uses defaults",
			cfg:         nil,
			expectError: false,
		},
		{
			name:        "zero config uses defaults",
			cfg:         &Config{},
			expectError: false,
		},
		{
			name: "explicit valid config",
			cfg: &Config{
				Epoch:         testEpoch,
				ProcessIDBits: 4,
				WorkerIDBits:  6,
				IncrementBits: 10,
				Policy:        PolicyRoundRobin,
			},
			expectError: false,
		},
		{
			name: "negative epoch",
			cfg: &Config{
				Epoch: -1,
			},
			expectError: true,
		},
		{
			name: "negative bit width",
			cfg: &Config{
				ProcessIDBits: -1,
			},
			expectError: true,
		},
		{
			name: "bit widths leave no room for timestamp",
			cfg: &Config{
				ProcessIDBits: 10,
				WorkerIDBits:  10,
				IncrementBits: 10,
			},
			expectError: true,
		},
		{
			name: "unsupported policy",
			cfg: &Config{
				Policy: "least_loaded",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewGenerator(tt.cfg)
			if tt.expectError {
				if err == nil {
					t.Error("Expected error but got none")
				}
				if err != nil && !errors.Is(err, ErrInvalidInput) {
					t.Errorf("Expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if gen == nil {
				t.Error("Expected generator but got nil")
			}
		})
	}
}

func TestConfig_Defaults_Unit(t *testing.T) {
	cfg := &Config{}
	cfg.setDefaults()

	if cfg.Epoch != DefaultEpoch {
		t.Errorf("default epoch = %d，期望 %d", cfg.Epoch, DefaultEpoch)
	}
	if cfg.ProcessIDBits != 5 || cfg.WorkerIDBits != 5 || cfg.IncrementBits != 12 {
		t.Errorf("default bits = %d/%d/%d，期望 5/5/12",
			cfg.ProcessIDBits, cfg.WorkerIDBits, cfg.IncrementBits)
	}
	if cfg.Policy != PolicyRandom {
		t.Errorf("default policy = %q，期望 %q", cfg.Policy, PolicyRandom)
	}
}

// ========================================
// 位布局单元测试
// ========================================

func TestLayout_Bounds_Unit(t *testing.T) {
	gen, err := NewGenerator(&Config{Epoch: testEpoch})
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	layout := gen.Layout()
	// 5 bit -> 31, 5 bit -> 31, 12 bit -> 4095
	if layout.MaxProcessID() != 31 {
		t.Errorf("MaxProcessID = %d，期望 31", layout.MaxProcessID())
	}
	if layout.MaxWorkerID() != 31 {
		t.Errorf("MaxWorkerID = %d，期望 31", layout.MaxWorkerID())
	}
	if layout.MaxIncrement() != 4095 {
		t.Errorf("MaxIncrement = %d，期望 4095", layout.MaxIncrement())
	}
	if layout.EpochMs() != testEpoch*1000 {
		t.Errorf("EpochMs = %d，期望 %d", layout.EpochMs(), testEpoch*1000)
	}
}

func TestLayout_DecodeRoundTrip_Unit(t *testing.T) {
	gen, err := NewGenerator(&Config{Epoch: testEpoch})
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}
	layout := gen.Layout()

	tests := []struct {
		name   string
		fields Fields
	}{
		{
			name: "all zero fields",
			fields: Fields{
				TimestampMs: testEpoch * 1000,
			},
		},
		{
			name: "typical fields",
			fields: Fields{
				TimestampMs: testEpoch*1000 + 123456789,
				ProcessID:   3,
				WorkerID:    7,
				Sequence:    42,
			},
		},
		{
			name: "all fields at max",
			fields: Fields{
				TimestampMs: testEpoch*1000 + (1<<41 - 1),
				ProcessID:   31,
				WorkerID:    31,
				Sequence:    4095,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := layout.Compose(tt.fields)
			got := layout.Decode(id)
			if got != tt.fields {
				t.Errorf("Decode(Compose(f)) = %+v，期望 %+v", got, tt.fields)
			}
		})
	}
}

// ========================================
// Worker 注册单元测试
// ========================================

func TestRegisterWorker_Unit(t *testing.T) {
	gen, err := NewGenerator(&Config{Epoch: testEpoch})
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	t.Run("valid registration", func(t *testing.T) {
		w, err := gen.RegisterWorker(1, 0)
		if err != nil {
			t.Fatalf("RegisterWorker failed: %v", err)
		}
		if w.WorkerID() != 1 || w.ProcessID() != 0 {
			t.Errorf("worker identity = (%d, %d)，期望 (0, 1)", w.ProcessID(), w.WorkerID())
		}
	})

	t.Run("duplicate pair rejected", func(t *testing.T) {
		_, err := gen.RegisterWorker(1, 0)
		if !errors.Is(err, ErrWorkerExists) {
			t.Errorf("重复注册应返回 ErrWorkerExists，got %v", err)
		}
	})

	t.Run("same worker id under different process allowed", func(t *testing.T) {
		if _, err := gen.RegisterWorker(1, 1); err != nil {
			t.Errorf("不同进程下相同 worker_id 应允许注册: %v", err)
		}
	})

	// process_id_bits=5 -> max 31，32 越界
	t.Run("process id out of range", func(t *testing.T) {
		_, err := gen.RegisterWorker(0, 32)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("越界 process_id 应返回 ErrInvalidInput，got %v", err)
		}
	})

	t.Run("worker id out of range", func(t *testing.T) {
		_, err := gen.RegisterWorker(32, 0)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("越界 worker_id 应返回 ErrInvalidInput，got %v", err)
		}
	})

	t.Run("negative ids rejected", func(t *testing.T) {
		if _, err := gen.RegisterWorker(-1, 0); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("负 worker_id 应返回 ErrInvalidInput，got %v", err)
		}
		if _, err := gen.RegisterWorker(0, -1); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("负 process_id 应返回 ErrInvalidInput，got %v", err)
		}
	})

	t.Run("initial sequence out of range", func(t *testing.T) {
		_, err := gen.RegisterWorker(2, 0, WithInitialSequence(4096))
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("越界初始序列号应返回 ErrInvalidInput，got %v", err)
		}
	})
}

func TestFindWorker_Unit(t *testing.T) {
	gen, err := NewGenerator(&Config{Epoch: testEpoch})
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	registered, err := gen.RegisterWorker(3, 2)
	if err != nil {
		t.Fatalf("RegisterWorker failed: %v", err)
	}

	t.Run("found", func(t *testing.T) {
		w, ok := gen.FindWorker(3, 2)
		if !ok {
			t.Fatal("FindWorker 应找到已注册的 Worker")
		}
		if w != registered {
			t.Error("FindWorker 应返回注册时的同一实例")
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, ok := gen.FindWorker(2, 3); ok {
			t.Error("FindWorker 不应找到未注册的身份对")
		}
	})
}

// ========================================
// Worker 发号单元测试（受控时钟）
// ========================================

func TestWorker_NextID_Unit(t *testing.T) {
	clock := testkit.NewFakeClock(testEpoch*1000 + 1000)
	gen, err := NewGenerator(&Config{Epoch: testEpoch}, WithClock(clock))
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	w, err := gen.RegisterWorker(7, 3)
	if err != nil {
		t.Fatalf("RegisterWorker failed: %v", err)
	}

	t.Run("first id carries identity and timestamp", func(t *testing.T) {
		id, err := w.NextID()
		if err != nil {
			t.Fatalf("NextID failed: %v", err)
		}

		fields := gen.Decode(id)
		if fields.ProcessID != 3 || fields.WorkerID != 7 {
			t.Errorf("identity = (%d, %d)，期望 (3, 7)", fields.ProcessID, fields.WorkerID)
		}
		if fields.TimestampMs != testEpoch*1000+1000 {
			t.Errorf("timestamp = %d，期望 %d", fields.TimestampMs, testEpoch*1000+1000)
		}
		if fields.Sequence != 1 {
			t.Errorf("sequence = %d，期望 1（从初始值 0 推进）", fields.Sequence)
		}
	})

	t.Run("same millisecond increments sequence", func(t *testing.T) {
		id, err := w.NextID()
		if err != nil {
			t.Fatalf("同毫秒发号不应失败: %v", err)
		}
		if got := gen.Decode(id).Sequence; got != 2 {
			t.Errorf("sequence = %d，期望 2", got)
		}
	})

	t.Run("advancing clock keeps sequence counting", func(t *testing.T) {
		clock.Advance(5)
		id, err := w.NextID()
		if err != nil {
			t.Fatalf("NextID failed: %v", err)
		}
		fields := gen.Decode(id)
		if fields.TimestampMs != testEpoch*1000+1005 {
			t.Errorf("timestamp = %d，期望 %d", fields.TimestampMs, testEpoch*1000+1005)
		}
		// 序列号跨毫秒继续推进，不归零
		if fields.Sequence != 3 {
			t.Errorf("sequence = %d，期望 3", fields.Sequence)
		}
	})
}

func TestWorker_InitialSequence_Unit(t *testing.T) {
	clock := testkit.NewFakeClock(testEpoch * 1000)
	gen, err := NewGenerator(&Config{Epoch: testEpoch}, WithClock(clock))
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	w, err := gen.RegisterWorker(0, 0, WithInitialSequence(100))
	if err != nil {
		t.Fatalf("RegisterWorker failed: %v", err)
	}

	id, err := w.NextID()
	if err != nil {
		t.Fatalf("NextID failed: %v", err)
	}
	if got := gen.Decode(id).Sequence; got != 101 {
		t.Errorf("sequence = %d，期望 101（从初始值 100 推进）", got)
	}
}

func TestWorker_SequenceWraparound_Unit(t *testing.T) {
	// 2 bit 序列号：同一毫秒内第 5 次发号与第 1 次碰撞，
	// 这是文档化的可接受行为，此处显式断言
	clock := testkit.NewFakeClock(testEpoch * 1000)
	gen, err := NewGenerator(&Config{
		Epoch:         testEpoch,
		IncrementBits: 2,
	}, WithClock(clock))
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	w, err := gen.RegisterWorker(0, 0)
	if err != nil {
		t.Fatalf("RegisterWorker failed: %v", err)
	}

	seen := make(map[uint64]bool)
	var first uint64
	for i := 0; i < 4; i++ {
		id, err := w.NextID()
		if err != nil {
			t.Fatalf("NextID failed at %d: %v", i, err)
		}
		if i == 0 {
			first = id
		}
		if seen[id] {
			t.Fatalf("前 max_increment+1 次发号不应碰撞，iteration %d", i)
		}
		seen[id] = true
	}

	// 第 5 次：序列号回绕，复用第 1 次的值
	id, err := w.NextID()
	if err != nil {
		t.Fatalf("回绕发号不应报错: %v", err)
	}
	if id != first {
		t.Errorf("回绕后 id = %d，期望与首个 id %d 碰撞", id, first)
	}
}

func TestWorker_ClockRegression_Unit(t *testing.T) {
	clock := testkit.NewFakeClock(testEpoch*1000 + 10000)
	gen, err := NewGenerator(&Config{Epoch: testEpoch}, WithClock(clock))
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	w, err := gen.RegisterWorker(1, 1)
	if err != nil {
		t.Fatalf("RegisterWorker failed: %v", err)
	}

	if _, err := w.NextID(); err != nil {
		t.Fatalf("NextID failed: %v", err)
	}
	lastBefore, seqBefore := w.snapshot()

	// 回拨 250ms
	clock.Advance(-250)
	_, err = w.NextID()
	if err == nil {
		t.Fatal("时钟回拨时 NextID 应失败")
	}
	if !errors.Is(err, ErrClockBackwards) {
		t.Errorf("errors.Is(err, ErrClockBackwards) = false: %v", err)
	}

	var drift *ClockDriftError
	if !errors.As(err, &drift) {
		t.Fatalf("错误应为 *ClockDriftError: %v", err)
	}
	if drift.Drift.Milliseconds() != 250 {
		t.Errorf("Drift = %dms，期望 250ms", drift.Drift.Milliseconds())
	}

	// 失败的调用不得改变任何状态
	lastAfter, seqAfter := w.snapshot()
	if lastAfter != lastBefore || seqAfter != seqBefore {
		t.Errorf("失败后状态被修改: last %d->%d, seq %d->%d",
			lastBefore, lastAfter, seqBefore, seqAfter)
	}

	// 时钟追上后恢复发号
	clock.Advance(250)
	if _, err := w.NextID(); err != nil {
		t.Errorf("时钟追平后发号应恢复（相等时间戳合法）: %v", err)
	}
}

func TestWorker_MonotonicTimestamps_Unit(t *testing.T) {
	clock := testkit.NewFakeClock(testEpoch * 1000)
	gen, err := NewGenerator(&Config{Epoch: testEpoch}, WithClock(clock))
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	w, err := gen.RegisterWorker(0, 0)
	if err != nil {
		t.Fatalf("RegisterWorker failed: %v", err)
	}

	var lastTs int64
	for i := 0; i < 1000; i++ {
		id, err := w.NextID()
		if err != nil {
			t.Fatalf("NextID failed at %d: %v", i, err)
		}
		ts := gen.Decode(id).TimestampMs
		if ts < lastTs {
			t.Fatalf("时间戳字段回退 at %d: %d < %d", i, ts, lastTs)
		}
		lastTs = ts
		if i%3 == 0 {
			clock.Advance(1)
		}
	}
}

// ========================================
// Generator 调度单元测试
// ========================================

func TestGenerator_NoWorkers_Unit(t *testing.T) {
	gen, err := NewGenerator(&Config{Epoch: testEpoch})
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	if _, err := gen.NextID(); !errors.Is(err, ErrNoWorkers) {
		t.Errorf("空注册表应返回 ErrNoWorkers，got %v", err)
	}
}

func TestGenerator_RandomRotationFairness_Unit(t *testing.T) {
	gen, err := NewGenerator(&Config{Epoch: testEpoch, Policy: PolicyRandom})
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	const n = 8
	for i := int64(0); i < n; i++ {
		if _, err := gen.RegisterWorker(i, 0); err != nil {
			t.Fatalf("RegisterWorker failed: %v", err)
		}
	}

	// 每一轮 n 次请求应恰好使用每个 Worker 一次，连续验证多轮
	for round := 0; round < 5; round++ {
		used := make(map[int64]bool)
		for i := 0; i < n; i++ {
			id, err := gen.NextID()
			if err != nil {
				t.Fatalf("NextID failed: %v", err)
			}
			wid := gen.Decode(id).WorkerID
			if used[wid] {
				t.Fatalf("round %d: worker %d 在一轮内被使用了两次", round, wid)
			}
			used[wid] = true
		}
		if len(used) != n {
			t.Fatalf("round %d: 使用了 %d 个 Worker，期望 %d", round, len(used), n)
		}
	}
}

func TestGenerator_RoundRobinOrder_Unit(t *testing.T) {
	gen, err := NewGenerator(&Config{Epoch: testEpoch, Policy: PolicyRoundRobin})
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}

	for _, wid := range []int64{0, 1, 2} {
		if _, err := gen.RegisterWorker(wid, 0); err != nil {
			t.Fatalf("RegisterWorker failed: %v", err)
		}
	}

	// 注册 [0,1,2] 后连续 4 次调用应依次使用 0,1,2,0
	want := []int64{0, 1, 2, 0}
	for i, expected := range want {
		id, err := gen.NextID()
		if err != nil {
			t.Fatalf("NextID failed at %d: %v", i, err)
		}
		if got := gen.Decode(id).WorkerID; got != expected {
			t.Errorf("call %d used worker %d，期望 %d", i, got, expected)
		}
	}
}

func TestGenerator_ClockRegressionPropagates_Unit(t *testing.T) {
	clock := testkit.NewFakeClock(testEpoch*1000 + 1000)
	gen, err := NewGenerator(&Config{Epoch: testEpoch}, WithClock(clock))
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}
	if _, err := gen.RegisterWorker(0, 0); err != nil {
		t.Fatalf("RegisterWorker failed: %v", err)
	}

	if _, err := gen.NextID(); err != nil {
		t.Fatalf("NextID failed: %v", err)
	}

	clock.Advance(-100)
	_, err = gen.NextID()
	var drift *ClockDriftError
	if !errors.As(err, &drift) {
		t.Fatalf("Generator 应原样传递 *ClockDriftError: %v", err)
	}
	if drift.Drift.Milliseconds() != 100 {
		t.Errorf("Drift = %dms，期望 100ms", drift.Drift.Milliseconds())
	}
}

// ========================================
// 唯一性与并发测试
// ========================================

func TestGenerator_Uniqueness_Unit(t *testing.T) {
	// 原始部署形态：4 进程 x 10 Worker
	gen, err := NewGenerator(&Config{Epoch: testEpoch})
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}
	for pid := int64(0); pid < 4; pid++ {
		for wid := int64(0); wid < 10; wid++ {
			if _, err := gen.RegisterWorker(wid, pid); err != nil {
				t.Fatalf("RegisterWorker failed: %v", err)
			}
		}
	}

	seen := make(map[uint64]bool, 100000)
	for i := 0; i < 100000; i++ {
		id, err := gen.NextID()
		if err != nil {
			t.Fatalf("NextID failed at %d: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("Duplicate ID at iteration %d: %d", i, id)
		}
		seen[id] = true
	}
}

func TestGenerator_ConcurrentUniqueness_Unit(t *testing.T) {
	gen, err := NewGenerator(&Config{Epoch: testEpoch})
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}
	for wid := int64(0); wid < 4; wid++ {
		if _, err := gen.RegisterWorker(wid, 0); err != nil {
			t.Fatalf("RegisterWorker failed: %v", err)
		}
	}

	const (
		goroutines = 8
		perG       = 2000
	)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[uint64]bool, goroutines*perG)
	)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]uint64, 0, perG)
			for i := 0; i < perG; i++ {
				id, err := gen.NextID()
				if err != nil {
					t.Errorf("NextID failed: %v", err)
					return
				}
				local = append(local, id)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				if ids[id] {
					t.Errorf("Duplicate ID under concurrency: %d", id)
					return
				}
				ids[id] = true
			}
		}()
	}
	wg.Wait()
}

// ========================================
// UUID 单元测试
// ========================================

func TestUUID_Unit(t *testing.T) {
	t.Run("v7 format", func(t *testing.T) {
		uid := NewUUIDV7()
		if len(uid) != 36 {
			t.Errorf("UUID 长度 = %d，期望 36", len(uid))
		}
		if uid[14] != '7' {
			t.Errorf("版本位 = %c，期望 7", uid[14])
		}
	})

	t.Run("v4 format", func(t *testing.T) {
		uid := NewUUIDV4()
		if len(uid) != 36 {
			t.Errorf("UUID 长度 = %d，期望 36", len(uid))
		}
		if uid[14] != '4' {
			t.Errorf("版本位 = %c，期望 4", uid[14])
		}
	})

	t.Run("instance mode", func(t *testing.T) {
		gen := NewUUID(WithUUIDVersion("v4"))
		if uid := gen.Next(); uid[14] != '4' {
			t.Errorf("版本位 = %c，期望 4", uid[14])
		}
		if a, b := gen.Next(), gen.Next(); a == b {
			t.Error("连续生成的 UUID 不应相同")
		}
	})
}
