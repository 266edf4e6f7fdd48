package database

import (
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

var autoMigrateModels []interface{}

// RegisterAutoMigrateModels 注册需要自动迁移的模型，在各 model 包的 init() 中调用
func RegisterAutoMigrateModels(models ...interface{}) {
	autoMigrateModels = append(autoMigrateModels, models...)
}

// Open 使用 DSN 建立数据库连接并执行迁移
func Open(dsn string) error {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}
	return Use(conn)
}

// Use 复用宿主系统已有的数据库连接
func Use(conn *gorm.DB) error {
	db = conn
	if len(autoMigrateModels) > 0 {
		if err := db.AutoMigrate(autoMigrateModels...); err != nil {
			return err
		}
	}
	slog.Info("Freight database ready", "models", len(autoMigrateModels))
	return nil
}

func Database() *gorm.DB {
	return db
}

func Ready() bool {
	return db != nil
}
