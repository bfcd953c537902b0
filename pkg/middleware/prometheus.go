package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/metrics"
)

// PrometheusMiddleware 记录请求计数、时延与操作成功计数.
// 失败 outcome 由 handle 层在写错误响应时记录.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		duration := time.Since(start).Seconds()

		metrics.RequestCounter.WithLabelValues(method, path).Inc()
		metrics.RequestDuration.WithLabelValues(method, path).Observe(duration)

		if route := c.FullPath(); route != "" && c.Writer.Status() < http.StatusBadRequest {
			metrics.VaultOpCounter.WithLabelValues(route, "ok").Inc()
		}
	}
}
