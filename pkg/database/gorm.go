package database

import (
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getLogger(isProd bool) logger.Interface {
	level := logger.Info
	if isProd {
		level = logger.Warn
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true, // Ignore ErrRecordNotFound error for logger
			ParameterizedQueries:      true, // Don't include params in the SQL log
			Colorful:                  !isProd,
		},
	)
}

func configureConnectionPool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// SetMaxIdleConns sets the maximum number of connections in the idle connection pool.
	sqlDB.SetMaxIdleConns(10)

	// SetMaxOpenConns sets the maximum number of open connections to the database.
	sqlDB.SetMaxOpenConns(100)

	// SetConnMaxLifetime sets the maximum amount of time a connection may be reused.
	sqlDB.SetConnMaxLifetime(time.Hour)

	return nil
}

// Config returns the GORM settings shared by every dialect. TranslateError maps driver
// unique violations to gorm.ErrDuplicatedKey.
func Config(isProd bool) *gorm.Config {
	return &gorm.Config{
		Logger:         getLogger(isProd),
		TranslateError: true,
	}
}

const sqlitePrefix = "sqlite://"

// NewGormDBFromDSN opens postgres, or sqlite when dsn starts with sqlite:// (local runs).
func NewGormDBFromDSN(dsn string, isProd bool) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, sqlitePrefix) {
		return NewSqliteDB(strings.TrimPrefix(dsn, sqlitePrefix), isProd)
	}

	db, err := gorm.Open(postgres.Open(dsn), Config(isProd))
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db); err != nil {
		return nil, err
	}

	return db, nil
}

// NewSqliteDB opens a sqlite database file, or ":memory:". sqlite allows a single writer
// and every pooled connection to ":memory:" is a separate database, so the pool is one
// connection.
func NewSqliteDB(path string, isProd bool) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), Config(isProd))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}
