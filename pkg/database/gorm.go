package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func getLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)
}

func configureConnectionPool(db *gorm.DB, maxOpen int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return nil
}

// NewGormDB opens a connection for driver ("postgres" or "sqlite"). For
// sqlite the dsn is a file path or a "file:...?mode=memory" URI.
func NewGormDB(driver, dsn string) (*gorm.DB, error) {
	var (
		dialector gorm.Dialector
		maxOpen   = 100
	)

	switch driver {
	case DriverPostgres, "":
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
		// SQLite serializes writers anyway.
		maxOpen = 1
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: getLogger(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db, maxOpen); err != nil {
		return nil, err
	}

	return db, nil
}

func NewGormDBFromDSN(dsn string) (*gorm.DB, error) {
	return NewGormDB(DriverPostgres, dsn)
}

// NewInMemorySQLite opens a private in-memory database. name keeps
// concurrently opened databases apart.
func NewInMemorySQLite(name string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: getLogger(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := configureConnectionPool(db, 1); err != nil {
		return nil, err
	}
	return db, nil
}
