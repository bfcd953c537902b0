//go:build !no_postgres

package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yeisme/filevault/pkg/configs"
)

// createPostgresDialector 创建PostgreSQL dialector.
func createPostgresDialector(dsn string) gorm.Dialector {
	return postgres.Open(dsn)
}

func init() {
	RegisterDialectorFactory(configs.PostgreSQL, createPostgresDialector)
	RegisterDialectorFactory(configs.Postgres, createPostgresDialector)
	RegisterDialectorFactory(configs.Pg, createPostgresDialector)
}
