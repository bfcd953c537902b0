// Package middleware 提供 gin 中间件：存储注入、请求日志、CORS、压缩、
// 限流、熔断与 Prometheus 指标.
package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/storage"
)

// Default 按固定顺序装配全局中间件链.
func Default(cfg *configs.AppConfig, manager *storage.Manager) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		gin.Recovery(),
		GinLoggerMiddleware(),
		StorageMiddleware(manager),
		CORSMiddleware(cfg.Server),
		gzip.Gzip(gzip.DefaultCompression),
		RateLimitMiddleware(cfg.RateLimit),
		CircuitBreakerMiddleware(cfg.CircuitBreaker),
		PrometheusMiddleware(),
	}
}
