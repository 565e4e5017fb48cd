package metrics

// Config 指标系统配置。
//
// 典型配置示例（YAML）：
//
//	metrics:
//	  enabled: true
//	  service_name: "id-service"
//	  version: "v1.2.3"
//	  port: 9090
//	  path: "/metrics"
type Config struct {
	// Enabled 是否启用指标收集。
	// 为 false 时 New 返回 noop Meter，所有操作都是空操作。
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// ServiceName 服务名称，作为 OpenTelemetry Resource 的 service.name 属性
	ServiceName string `mapstructure:"service_name" yaml:"service_name" json:"service_name"`

	// Version 服务版本，作为 service.version 属性
	Version string `mapstructure:"version" yaml:"version" json:"version"`

	// Port Prometheus HTTP 端点监听端口，大于 0 时启动内置 HTTP 服务器
	Port int `mapstructure:"port" yaml:"port" json:"port"`

	// Path Prometheus 指标的 HTTP 路径，必须以 "/" 开头
	Path string `mapstructure:"path" yaml:"path" json:"path"`
}

// NewDevDefaultConfig 返回适合本地开发和测试的默认配置：
// 启用指标收集，但不启动 HTTP 端点。
func NewDevDefaultConfig(service string) *Config {
	return &Config{
		Enabled:     true,
		ServiceName: service,
		Version:     "dev",
	}
}
