package handle

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/log"
)

// DownloadFile 下载自己的文件，直接返回文件流.
func DownloadFile(c *gin.Context) {
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

	svc := service.NewVaultService(c.Request.Context())

	res, err := svc.Download(c.Request.Context(), user, id)
	if err != nil {
		l.Warn().Err(err).Str("user", user).Uint("file_id", id).Msg("download failed")
		writeError(c, err)

		return
	}

	serveStream(c, res)
}

// PublicDownload 通过公开链接下载，无需用户身份.
func PublicDownload(c *gin.Context) {
	l := log.Logger()

	link := strings.TrimSpace(c.Param("link"))
	if link == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing link"})

		return
	}

	svc := service.NewVaultService(c.Request.Context())

	res, err := svc.PublicDownload(c.Request.Context(), link)
	if err != nil {
		l.Warn().Err(err).Msg("public download failed")
		writeError(c, err)

		return
	}

	serveStream(c, res)
}

// serveStream 写出下载流与元数据响应头.
func serveStream(c *gin.Context, res *service.DownloadResult) {
	defer func() { _ = res.Reader.Close() }()

	c.Header("Content-Type", res.MimeType)
	c.Header("Content-Length", strconv.FormatInt(res.Size, 10))
	c.Header("Content-Disposition", "attachment; filename=\""+escapeFileName(res.Name)+"\"")

	if _, err := io.Copy(c.Writer, res.Reader); err != nil {
		log.Logger().Warn().Err(err).Str("name", res.Name).Msg("download stream interrupted")
	}
}

// escapeFileName 转义响应头文件名中的引号与控制字符.
func escapeFileName(s string) string {
	replacer := strings.NewReplacer("\\", "_", "\"", "_", ";", "_", "\n", "_", "\r", "_")

	return replacer.Replace(s)
}
