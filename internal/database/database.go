package database

import (
	"fmt"
	"time"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/config"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/model"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// BuildDSN 构建 PostgreSQL DSN
func BuildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// Connect 连接数据库并配置连接池
// driver 为 sqlite 时使用本地文件库(开发/测试),否则连接 PostgreSQL
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error
	if cfg.Driver == "sqlite" {
		db, err = gorm.Open(sqlite.Open(cfg.DBName), gormCfg)
	} else {
		db, err = gorm.Open(postgres.Open(BuildDSN(cfg)), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	maxIdle := cfg.MaxIdleConns
	if maxIdle == 0 {
		maxIdle = 10
	}
	maxOpen := cfg.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 100
	}
	maxLifetime := cfg.ConnMaxLifetime
	if maxLifetime == 0 {
		maxLifetime = 3600
	}
	maxIdleTime := cfg.ConnMaxIdleTime
	if maxIdleTime == 0 {
		maxIdleTime = 600
	}

	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(maxLifetime) * time.Second)
	sqlDB.SetConnMaxIdleTime(time.Duration(maxIdleTime) * time.Second)

	return db, nil
}

// ConnectWithRetry 带重试的数据库连接
// maxRetries 次失败后放弃,间隔按指数退避
func ConnectWithRetry(cfg config.DatabaseConfig, maxRetries int, interval time.Duration) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		db, err = Connect(cfg)
		if err == nil {
			return db, nil
		}

		if attempt < maxRetries {
			wait := interval * time.Duration(1<<attempt)
			logrus.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"wait":    wait.String(),
			}).Warnf("database connection failed, retrying: %v", err)
			time.Sleep(wait)
		}
	}

	return nil, fmt.Errorf("failed to connect database after %d retries: %w", maxRetries, err)
}

// Migrate 执行数据库迁移
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.FormDocument{}); err != nil {
		return fmt.Errorf("failed to migrate forms table: %w", err)
	}
	return nil
}

// OpenForTest 打开内存 SQLite 数据库并完成迁移(仅测试使用)
// 每次调用使用独立的命名内存库,避免用例间共享状态
func OpenForTest() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
