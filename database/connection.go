package database

import (
	"calibration-app/config"
	"calibration-app/logging"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var log = logging.GetLogger("database")

func getDSNAndDialector(dbName string) (string, gorm.Dialector, error) {
	switch config.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, dbName, config.DBPort)
		return dsn, postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return dsn, mysql.Open(dsn), nil
	case "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		return dsn, sqlserver.Open(dsn), nil
	case "sqlite":
		// DB_NAME is the database file
		return dbName, sqlite.Open(dbName), nil
	default:
		return "", nil, fmt.Errorf("unsupported DB_DRIVER: %s", config.DBDriver)
	}
}

// Open connects to the configured database and sets the pool limits.
func Open() (*gorm.DB, error) {
	_, dialector, err := getDSNAndDialector(config.DBName)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Warn
	if config.LogDebug {
		level = gormlogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logging.NewGormLogger(logging.GetLogger("gorm"), 500*time.Millisecond).LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	if config.DBDriver == "sqlite" {
		// one writer at a time
		sqlDB.SetMaxOpenConns(1)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("connected to database", "driver", config.DBDriver, "name", config.DBName)
	return db, nil
}
