package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/handle"
)

// RegisterFilesRoutes 注册文件操作相关路由.
func RegisterFilesRoutes(g *gin.RouterGroup) {
	filesRoutes := g.Group("/files")
	{
		// 批量上传（multipart），目标目录由表单字段 path 给出
		filesRoutes.POST("/upload", handle.UploadFiles)
		// 目录列表
		filesRoutes.GET("/list", handle.ListContents)
		// 按显示名搜索
		filesRoutes.GET("/search", handle.SearchFiles)

		// 单个文件操作
		singleGroup := filesRoutes.Group("/:id")
		{
			singleGroup.GET("/download", handle.DownloadFile)
			singleGroup.POST("/rename", handle.RenameFile)
			singleGroup.POST("/move", handle.MoveFile)
			singleGroup.POST("/public", handle.SetFilePublic)
			singleGroup.DELETE("", handle.DeleteFile)
		}
	}
}
