// Package router 将 HTTP 路径绑定到 pkg/internal/handle 的处理器.
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes 注册 /api/v1 下的全部业务路由.
func RegisterAPIRoutes(g *gin.RouterGroup) {
	RegisterFilesRoutes(g)
	RegisterFoldersRoutes(g)
	RegisterHealthCheckRoute(g)
	RegisterAdminRoutes(g)
}
