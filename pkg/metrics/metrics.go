// Package metrics 提供 Prometheus 指标：HTTP 请求维度与金库操作维度.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/filevault/pkg/configs"
)

var (
	// RequestCounter HTTP 请求计数器.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint"},
	)

	// RequestDuration HTTP 请求持续时间.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// VaultOpCounter 金库操作计数器，outcome 取 ok / conflict /
	// not_found / partial / error.
	VaultOpCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_operations_total",
			Help: "Total number of vault operations by outcome",
		},
		[]string{"op", "outcome"},
	)

	// ObjectsRelocated 文件夹重命名/移动搬移的标记对象计数.
	ObjectsRelocated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vault_objects_relocated_total",
			Help: "Total number of objects relocated by prefix copy",
		},
	)

	registry = prometheus.NewRegistry()
)

// InitMetrics 初始化指标注册表.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.RuntimeMetrics {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	registry.MustRegister(RequestCounter, RequestDuration, VaultOpCounter, ObjectsRelocated)

	return nil
}

// StartMetricsServer 在引擎上暴露 /metrics 端点.
func StartMetricsServer(config configs.MetricsConfig, engine *gin.Engine) error {
	if !config.Enabled {
		return nil
	}

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return nil
}

// GetRegistry 获取 Prometheus 注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}
