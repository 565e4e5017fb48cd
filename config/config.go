package config

import (
	"context"
	"fmt"
)

// New 创建配置加载器，需要调用 Load 后才能读取配置。
func New(opts ...Option) (Loader, error) {
	return newLoader(opts...)
}

// MustLoad 一步创建并加载配置，失败时 panic。仅用于初始化阶段。
func MustLoad(opts ...Option) Loader {
	loader, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	if err := loader.Load(context.Background()); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return loader
}
