package handle

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/log"
)

// UploadFiles 处理 multipart 批量上传. 目标目录由表单字段 path 给出
// （空为根目录）；目录上传时浏览器会在文件名里携带相对路径，
// 这里拆出来作为子路径，缺失的目录由服务层补建.
func UploadFiles(c *gin.Context) {
	l := log.Logger()

	form, err := c.MultipartForm()
	if err != nil {
		l.Warn().Err(err).Msg("failed to parse multipart form")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})

		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		l.Warn().Msg("no files provided in request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files provided"})

		return
	}

	user, err := checkUser(c)
	if err != nil {
		l.Warn().Err(err).Msg("missing or invalid user")
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing user"})

		return
	}

	items := make([]service.UploadItem, 0, len(files))
	closers := make([]func() error, 0, len(files))

	defer func() {
		for _, close := range closers {
			_ = close()
		}
	}()

	for _, fh := range files {
		src, openErr := fh.Open()
		if openErr != nil {
			l.Warn().Err(openErr).Str("filename", fh.Filename).Msg("failed to open uploaded file")
			continue
		}

		closers = append(closers, src.Close)

		// "a/b/c.txt" -> 子路径 "a/b"，显示名 "c.txt"
		relPath := path.Dir(fh.Filename)
		if relPath == "." || relPath == "/" {
			relPath = ""
		}

		items = append(items, service.UploadItem{
			Name:     path.Base(fh.Filename),
			Reader:   src,
			Size:     fh.Size,
			MimeType: fh.Header.Get("Content-Type"),
			RelPath:  relPath,
		})
	}

	if len(items) == 0 {
		l.Warn().Msg("no readable files in request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "no valid files"})

		return
	}

	ctx, cancel := opContext(c)
	defer cancel()

	svc := service.NewVaultService(c.Request.Context())

	resp, err := svc.UploadFiles(ctx, user, c.PostForm("path"), items)
	if err != nil {
		l.Error().Err(err).Str("user", user).Msg("upload failed")
		writeError(c, err)

		return
	}

	l.Info().
		Str("user", user).
		Int("uploaded", resp.UploadedCount).
		Int("failed", len(resp.Errors)).
		Msg("batch upload finished")

	c.JSON(http.StatusOK, resp)
}
