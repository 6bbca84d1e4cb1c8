package metrics

// Config 指标系统配置。
//
// 支持从配置文件加载：
//
//	cfg := &metrics.Config{}
//	loader.UnmarshalKey("metrics", cfg)
//
// 典型配置（YAML）：
//
//	metrics:
//	  enabled: true
//	  service_name: "loan-service"
//	  version: "v1.2.0"
//	  port: 9090
//	  path: "/metrics"
type Config struct {
	// Enabled 是否启用指标收集。
	// 为 false 时 New 返回 noop Meter，所有记录都是空操作。
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// ServiceName 服务名称，写入 OpenTelemetry Resource 的 service.name。
	ServiceName string `json:"service_name" yaml:"service_name" mapstructure:"service_name"`

	// Version 服务版本，写入 service.version。
	Version string `json:"version" yaml:"version" mapstructure:"version"`

	// Port 内置 Prometheus HTTP 服务器监听端口，大于 0 时启动。
	Port int `json:"port" yaml:"port" mapstructure:"port"`

	// Path 指标暴露路径，必须以 "/" 开头，默认 "/metrics"。
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// DefaultConfig 返回关闭状态的默认配置。
func DefaultConfig() *Config {
	return &Config{
		Enabled: false,
		Path:    "/metrics",
	}
}
