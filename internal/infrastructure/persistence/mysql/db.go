// Package mysql 基于GORM的仓储实现
//
// 生产环境使用MySQL（database.driver=postgres时切换到PostgreSQL），
// 单机演示与测试使用SQLite。仓储负责领域实体与GORM模型之间的转换，
// 并把数据库错误翻译成领域错误。
package mysql

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/techbookstore/internal/infrastructure/config"
)

// NewDB 按配置连接数据库并配置连接池
func NewDB(cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN())
	default:
		dialector = mysql.Open(cfg.Database.DSN())
	}

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := Open(dialector, logLevel)
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	log.Info().Str("driver", cfg.Database.Driver).Str("host", cfg.Database.Host).Msg("数据库连接成功")

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}
	return db, nil
}

// Open 打开GORM连接，唯一索引冲突翻译为gorm.ErrDuplicatedKey
func Open(dialector gorm.Dialector, logLevel logger.LogLevel) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().Truncate(time.Microsecond)
		},
	})
}

// AutoMigrate 创建或补齐表结构（只增不删）
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&PublisherModel{},
		&AuthorModel{},
		&CategoryModel{},
		&BookModel{},
		&BookAuthorModel{},
		&BookCategoryModel{},
		&InventoryModel{},
		&InventoryTransactionModel{},
		&CustomerModel{},
		&OrderModel{},
		&OrderItemModel{},
		&OptimalStockSettingsModel{},
		&StaffModel{},
		&ReportModel{},
		&ReportTemplateModel{},
	)
}
