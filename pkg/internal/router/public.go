package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/handle"
)

// RegisterPublicRoutes 注册公开下载路由. 链接即能力凭证，不要求用户身份.
func RegisterPublicRoutes(g *gin.RouterGroup) {
	g.GET("/public/:link", handle.PublicDownload)
}
