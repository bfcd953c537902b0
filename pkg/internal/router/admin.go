package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/handle"
)

// RegisterAdminRoutes 注册运维路由.
func RegisterAdminRoutes(g *gin.RouterGroup) {
	adminRoutes := g.Group("/admin")
	{
		// 手动触发一次对账，repair=true 时清理两侧孤儿
		adminRoutes.POST("/reconcile", handle.Reconcile)
	}
}
