//go:build !no_sqlite

package db

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/yeisme/filevault/pkg/configs"
)

// createSQLiteDialector 创建SQLite dialector（纯 Go 驱动，无需 CGo）.
func createSQLiteDialector(dsn string) gorm.Dialector {
	return sqlite.Open(dsn)
}

func init() {
	RegisterDialectorFactory(configs.SQLite, createSQLiteDialector)
}
