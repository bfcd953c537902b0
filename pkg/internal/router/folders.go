package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/handle"
)

// RegisterFoldersRoutes 注册文件夹操作相关路由.
func RegisterFoldersRoutes(g *gin.RouterGroup) {
	foldersRoutes := g.Group("/folders")
	{
		foldersRoutes.POST("", handle.CreateFolder)

		singleGroup := foldersRoutes.Group("/:id")
		{
			singleGroup.POST("/rename", handle.RenameFolder)
			singleGroup.POST("/move", handle.MoveFolder)
			singleGroup.DELETE("", handle.DeleteFolder)
		}
	}
}
