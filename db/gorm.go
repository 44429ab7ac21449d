package db

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kanekosora-114/Tune-into-English/config"
	"github.com/kanekosora-114/Tune-into-English/logger"
	"github.com/kanekosora-114/Tune-into-English/model"
)

// GormDB 是 GORM 数据库连接实例
var GormDB *gorm.DB

// ConnectGormDB opens the MySQL lookup-log database and migrates its schema.
func ConnectGormDB(cfg *config.Config) error {
	db, err := Open(mysql.Open(cfg.MySQLDSN()))
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	GormDB = db
	logger.Info("[DB] connected to the lookup log database",
		logger.String("host", cfg.DBHost),
		logger.String("database", cfg.DBName))
	return nil
}

// Open connects through dialector and migrates the lookup log table.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database with GORM: %w", err)
	}
	if err := db.AutoMigrate(&model.LyricsLookup{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate models: %w", err)
	}
	return db, nil
}

// CloseGormDB 关闭 GORM 数据库连接
func CloseGormDB() error {
	if GormDB == nil {
		return nil
	}
	sqlDB, err := GormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
