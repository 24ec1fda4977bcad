package database

import (
	"fmt"
	"os"
	"path/filepath"

	"homeforge/config"
	"homeforge/internal/global/sentry/tracing"
	"homeforge/internal/model"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the configured store, migrates it and seeds default spaces. It panics on failure.
func Init() {
	db, err := Open(config.Get())
	if err != nil {
		panic(err)
	}
	if err := Migrate(db); err != nil {
		panic(err)
	}
	DB = db
}

// Open connects to the store selected by cfg.Database.Driver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{TranslateError: true}
	switch cfg.Mode {
	case config.ModeDebug:
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	case config.ModeRelease:
		gormConfig.Logger = logger.Discard
	}

	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "", "sqlite":
		dsn, err := sqliteDSN(cfg)
		if err != nil {
			return nil, err
		}
		dialector = sqlite.Open(dsn)
	case "mysql":
		dialector = mysql.Open(mysqlDSN(cfg.Database.Mysql))
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if tracing.IsEnabled() {
		if err := db.Use(tracing.NewGormTracingPlugin()); err != nil {
			return nil, errors.Wrap(err, "register tracing plugin")
		}
	}
	return db, nil
}

func sqliteDSN(cfg *config.Config) (string, error) {
	file := cfg.Database.File
	if file == "" {
		file = "homeforge.db"
	}
	if !filepath.IsAbs(file) {
		file = filepath.Join(cfg.DataDir, file)
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return "", errors.Wrap(err, "create data dir")
	}
	return file + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", nil
}

func mysqlDSN(m config.Mysql) string {
	c := mysqlDriver.NewConfig()
	c.User = m.Username
	c.Passwd = m.Password
	c.Net = "tcp"
	c.Addr = m.Host + ":" + m.Port
	c.DBName = m.DBName
	c.ParseTime = true
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// Migrate creates or updates every table, then seeds the default spaces.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return Seed(db)
}

// Seed inserts the default spaces in one transaction when the spaces table is empty.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Space{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	spaces := make([]model.Space, len(model.DefaultSpaces))
	copy(spaces, model.DefaultSpaces)
	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&spaces).Error
	})
}
