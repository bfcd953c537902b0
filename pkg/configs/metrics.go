package configs

import (
	"github.com/spf13/viper"
)

// MetricsConfig 指标相关配置，基于 Prometheus.
type MetricsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`         // 是否启用指标
	ServiceName    string `mapstructure:"service_name"`    // 服务名称
	Endpoint       string `mapstructure:"endpoint"`        // 独立指标服务监听地址
	RuntimeMetrics bool   `mapstructure:"runtime_metrics"` // 是否收集 Go 运行时指标
}

// setDefaults 设置指标配置的默认值.
func (c *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.service_name", "filevault")
	v.SetDefault("metrics.endpoint", ":9090")
	v.SetDefault("metrics.runtime_metrics", true)
}
