package sql

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config selects the GORM dialect. DSN is a file path for sqlite and a
// go-sql-driver DSN for mysql.
type Config struct {
	Driver string
	DSN    string
}

// Open connects, applies the users schema and returns the handle.
// Driver errors are translated so unique violations surface as gorm.ErrDuplicatedKey.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("sql store: unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	if err := db.AutoMigrate(&userRecord{}); err != nil {
		return nil, fmt.Errorf("migrate users: %w", err)
	}
	return db, nil
}
