//go:build !no_postgres

package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yeisme/listingvault/pkg/configs"
)

func init() {
	open := func(dsn string) gorm.Dialector { return postgres.Open(dsn) }

	RegisterDialectorFactory(configs.PostgreSQL, open)
	RegisterDialectorFactory(configs.Postgres, open)
	RegisterDialectorFactory(configs.Pg, open)
}
