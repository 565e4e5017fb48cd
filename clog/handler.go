package clog

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// clogHandler 封装 slog.Handler，提供动态级别调整能力。
type clogHandler struct {
	slog.Handler
	levelVar *slog.LevelVar
}

// SetLevel 调整 handler 的最低输出级别。
func (h *clogHandler) SetLevel(level Level) error {
	h.levelVar.Set(level.toSlogLevel())
	return nil
}

// newHandler 根据配置创建 slog.Handler（内部使用）。
func newHandler(config *Config, options *options) (*clogHandler, error) {
	w, err := resolveWriter(config, options)
	if err != nil {
		return nil, err
	}

	levelVar := new(slog.LevelVar)
	initial, err := ParseLevel(config.Level)
	if err != nil {
		return nil, err
	}
	levelVar.Set(initial.toSlogLevel())

	opts := &slog.HandlerOptions{
		AddSource: config.AddSource,
		Level:     levelVar,
	}

	var handler slog.Handler
	if strings.ToLower(config.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &clogHandler{Handler: handler, levelVar: levelVar}, nil
}

// resolveWriter 根据配置解析输出目标。
// 选项中的 writer 优先，其次是 stdout/stderr，剩余情况按文件路径打开。
func resolveWriter(config *Config, options *options) (io.Writer, error) {
	if options.writer != nil {
		return options.writer, nil
	}

	switch strings.ToLower(config.Output) {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		f, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}
