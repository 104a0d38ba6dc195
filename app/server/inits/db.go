package inits

import (
	"fmt"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"user-registration/app/server/models"
)

func DB(conn string, debugMode bool) (db *gorm.DB, err error) {
	gormConfig := &gorm.Config{}
	if !debugMode {
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	}

	// 打开连接
	if db, err = gorm.Open(postgres.Open(conn), gormConfig); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 迁移
	if err = mig(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func mig(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
	)
}

// CloseDB 在退出前释放底层连接池
func CloseDB(db *gorm.DB, l *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		l.Error("failed to get sql db", zap.Error(err))
		return
	}
	if err = sqlDB.Close(); err != nil {
		l.Error("failed to close db", zap.Error(err))
	}
}
