package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/internal/types"
	"github.com/yeisme/filevault/pkg/log"
)

// ListContents 列出目录内容（文件夹、文件、面包屑）.
// 路径由 query 参数 path 给出，空为根目录.
func ListContents(c *gin.Context) {
	l := log.Logger()

	user, err := checkUser(c)
	if err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	svc := service.NewVaultService(c.Request.Context())

	resp, err := svc.ListContents(ctx, user, c.Query("path"))
	if err != nil {
		l.Warn().Err(err).Str("user", user).Msg("list contents failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateFolder 在指定父路径下创建文件夹.
func CreateFolder(c *gin.Context) {
	l := log.Logger()

	var req types.CreateFolderRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	user, err := checkUser(c)
	if err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	svc := service.NewVaultService(c.Request.Context())

	resp, err := svc.CreateFolder(ctx, user, req.Name, req.Path)
	if err != nil {
		l.Warn().Err(err).Str("user", user).Str("name", req.Name).Msg("create folder failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// RenameFolder 重命名文件夹，路径级联由服务层完成.
func RenameFolder(c *gin.Context) {
	l := log.Logger()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.RenameFolderRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	user, err := checkUser(c)
	if err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	svc := service.NewVaultService(c.Request.Context())

	resp, err := svc.RenameFolder(ctx, user, id, req.NewName)
	if err != nil {
		l.Warn().Err(err).Str("user", user).Uint("folder_id", id).Msg("rename folder failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// MoveFolder 将文件夹移动到另一个父路径下.
func MoveFolder(c *gin.Context) {
	l := log.Logger()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.MoveFolderRequest
	if err := c.ShouldBind(&req); err != nil {
		l.Warn().Err(err).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	user, err := checkUser(c)
	if err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	svc := service.NewVaultService(c.Request.Context())

	resp, err := svc.MoveFolder(ctx, user, id, req.NewParentPath)
	if err != nil {
		l.Warn().Err(err).Str("user", user).Uint("folder_id", id).Msg("move folder failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteFolder 递归删除文件夹及其内容，返回删除计数.
func DeleteFolder(c *gin.Context) {
	l := log.Logger()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := checkUser(c)
	if err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	svc := service.NewVaultService(c.Request.Context())

	resp, err := svc.DeleteFolder(ctx, user, id)
	if err != nil {
		l.Error().Err(err).Str("user", user).Uint("folder_id", id).Msg("delete folder failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
