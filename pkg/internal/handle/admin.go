package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/filevault/pkg/internal/service"
	"github.com/yeisme/filevault/pkg/log"
)

// Reconcile 手动触发一次对账：比对元数据行与对象存储中的文件字节键.
// query 参数 repair=true 时删除两侧的孤儿.
func Reconcile(c *gin.Context) {
	l := log.Logger()

	repair := c.Query("repair") == "true"

	svc := service.NewVaultService(c.Request.Context())

	report, err := svc.Reconcile(c.Request.Context(), repair)
	if err != nil {
		l.Error().Err(err).Msg("reconcile failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, report)
}
