package idgen

import "time"

// Clock 时间源接口。
// 抽象出来是为了让测试能够注入受控时钟（包括回拨场景）。
type Clock interface {
	// Now 当前时间（Unix 毫秒）
	Now() int64
}

// SystemClock 返回基于系统墙钟的 Clock。
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() int64 {
	return time.Now().UnixMilli()
}
