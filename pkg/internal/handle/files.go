package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/internal/types"
	"github.com/yeisme/filevault/pkg/log"
)

// RenameFile 修改文件显示名，对象键不变.
func RenameFile(c *gin.Context) {
	l := log.Logger()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.RenameFileRequest
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

	resp, err := svc.RenameFile(ctx, user, id, req.NewName)
	if err != nil {
		l.Warn().Err(err).Str("user", user).Uint("file_id", id).Msg("rename file failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// MoveFile 将文件移动到另一个文件夹.
func MoveFile(c *gin.Context) {
	l := log.Logger()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.MoveFileRequest
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

	resp, err := svc.MoveFile(ctx, user, id, req.NewFolderPath)
	if err != nil {
		l.Warn().Err(err).Str("user", user).Uint("file_id", id).Msg("move file failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteFile 删除文件（字节与元数据）.
func DeleteFile(c *gin.Context) {
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

	resp, err := svc.DeleteFile(ctx, user, id)
	if err != nil {
		l.Error().Err(err).Str("user", user).Uint("file_id", id).Msg("delete file failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// SetFilePublic 切换文件的公开状态，开启时返回公开链接.
func SetFilePublic(c *gin.Context) {
	l := log.Logger()

	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req types.SetFilePublicRequest
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

	resp, err := svc.SetFilePublic(ctx, user, id, req.Public)
	if err != nil {
		l.Warn().Err(err).Str("user", user).Uint("file_id", id).Msg("set file public failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}

// SearchFiles 按显示名做大小写不敏感的子串搜索.
func SearchFiles(c *gin.Context) {
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

	resp, err := svc.Search(ctx, user, c.Query("q"))
	if err != nil {
		l.Warn().Err(err).Str("user", user).Msg("search failed")
		writeError(c, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
