//go:build !no_mysql

package db

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/yeisme/listingvault/pkg/configs"
)

func init() {
	open := func(dsn string) gorm.Dialector { return mysql.Open(dsn) }

	RegisterDialectorFactory(configs.MySQL, open)
	RegisterDialectorFactory(configs.MariaDB, open)
}
