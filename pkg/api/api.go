// Package api 汇总对外 HTTP 接口的注册入口.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/router"
)

// RegisterGroup 将全部业务路由注册到传入的 gin 引擎：
// /api/v1 下的文件与文件夹操作，根路径下的公开下载.
func RegisterGroup(e *gin.Engine) *gin.Engine {
	router.RegisterAPIRoutes(e.Group("/api/v1"))
	router.RegisterPublicRoutes(e.Group(""))

	return e
}
