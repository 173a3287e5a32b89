package database

import (
	"fmt"
	"os"
	"time"

	pkgLogger "github.com/ligna-erp/ligna-api/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	maxIdleConns    = 5
	maxOpenConns    = 50
	connMaxLifetime = time.Hour
	connMaxIdleTime = 5 * time.Minute
	slowThreshold   = 200 * time.Millisecond
)

// Connect opens a PostgreSQL connection pool via GORM and verifies it
// with a ping. Query logging is silenced in production.
func Connect(databaseURL string) (*gorm.DB, error) {
	logLevel := logger.Info
	if os.Getenv("ENVIRONMENT") == "production" {
		logLevel = logger.Silent
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:                 pkgLogger.NewGormLogger(logLevel, slowThreshold),
		SkipDefaultTransaction: true, // the poster and invoicing open their own transactions
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database handle: %w", err)
	}

	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}
