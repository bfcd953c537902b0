// Package handle 提供 HTTP 请求处理器：身份提取、错误映射与各操作的入口.
package handle

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/configs"
	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/internal/tree"
	"github.com/yeisme/filevault/pkg/metrics"
	"github.com/yeisme/filevault/pkg/rule"
)

// checkUser 提取用户身份：Header 优先 -> query 参数 -> 非 Release 模式下的
// 测试默认值. 用户名必须是合法邮箱.
func checkUser(c *gin.Context) (string, error) {
	user := c.GetHeader("X-User")
	if user == "" {
		user = c.Query("user")
	}

	if user == "" && gin.Mode() != gin.ReleaseMode {
		user = "test-user@example.com"
	}

	user = strings.TrimSpace(user)

	if err := rule.ValidateVar(user, "required,email"); err != nil {
		return "", err
	}

	return user, nil
}

// opContext 为单次编排操作套上配置的总超时.
func opContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), configs.GetConfig().Server.GetTimeoutDuration())
}

// pathID 解析路径参数中的数字 ID.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})

		return 0, false
	}

	return uint(id), true
}

// statusOf 将领域错误映射到 HTTP 状态码.
func statusOf(err error) int {
	switch {
	case rule.ReasonOf(err) != "":
		return http.StatusBadRequest
	case errors.Is(err, tree.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tree.ErrConflict), errors.Is(err, tree.ErrCycle):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// outcomeOf 将领域错误映射到指标 outcome 维度.
func outcomeOf(err error) string {
	switch {
	case errors.Is(err, tree.ErrConflict), errors.Is(err, tree.ErrCycle):
		return "conflict"
	case errors.Is(err, tree.ErrNotFound):
		return "not_found"
	case service.IsPartialFailure(err):
		return "partial"
	default:
		return "error"
	}
}

// writeError 统一错误响应. 部分失败时附带已完成的那一半，方便排障.
func writeError(c *gin.Context, err error) {
	status := statusOf(err)

	body := gin.H{"success": false, "error": err.Error()}

	var pf *service.PartialFailureError
	if errors.As(err, &pf) {
		body["completed"] = pf.Completed
	}

	if route := c.FullPath(); route != "" {
		metrics.VaultOpCounter.WithLabelValues(route, outcomeOf(err)).Inc()
	}

	c.JSON(status, body)
}
