package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPoolConfig is sized for a single small web instance talking to a managed Postgres.
var DefaultPoolConfig = PoolConfig{
	MaxIdleConns:    5,
	MaxOpenConns:    20,
	ConnMaxLifetime: 30 * time.Minute,
}

func getLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true, // keep message content and vectors out of the SQL log
			Colorful:                  false,
		},
	)
}

func configureConnectionPool(db *gorm.DB, pool PoolConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)

	return nil
}

func NewGormDBFromDSN(dsn string, isProd bool) (*gorm.DB, error) {
	level := logger.Info
	if isProd {
		level = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: getLogger(level),
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db, DefaultPoolConfig); err != nil {
		return nil, err
	}

	return db, nil
}
