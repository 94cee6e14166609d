package container

import (
	"fmt"
	"time"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/api"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/config"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/database"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/metrics"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/repository"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/service"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/storage"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container 依赖注入容器
// 管理所有应用依赖,包括数据库、对象存储、服务等
type Container struct {
	db            *gorm.DB
	logger        *logrus.Logger
	objectStore   storage.ObjectStore
	formService   service.FormService
	uploadService service.UploadService
	poolCollector *metrics.PoolCollector
}

// NewContainer 创建依赖注入容器
// 根据配置初始化所有依赖组件
func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. 初始化日志
	logger, err := api.NewLoggerFromConfig(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 2. 初始化数据库(带重试机制)
	// 默认重试 3 次,初始间隔 1 秒,指数退避
	db, err := database.ConnectWithRetry(cfg.Database, 3, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// 执行数据库迁移
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. 初始化对象存储
	// 未配置凭证时跳过,PDF 上传端点不可用但表单 CRUD 正常工作
	var objectStore storage.ObjectStore
	if cfg.Storage.AccessKey != "" {
		store, err := storage.NewMinioStore(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		objectStore = store
	} else {
		logger.Warn("object storage credentials not configured, PDF uploads disabled")
	}

	// 4. 初始化服务
	formService := service.NewFormService(repository.NewFormRepository(db), logger)
	var uploadService service.UploadService
	if objectStore != nil {
		uploadService = service.NewUploadService(objectStore, logger)
	}

	// 5. 启动连接池指标采样
	poolCollector := metrics.StartPoolCollector(db, 0)

	return &Container{
		db:            db,
		logger:        logger,
		objectStore:   objectStore,
		formService:   formService,
		uploadService: uploadService,
		poolCollector: poolCollector,
	}, nil
}

// DB 获取数据库连接
func (c *Container) DB() *gorm.DB {
	return c.db
}

// Logger 获取日志记录器
func (c *Container) Logger() *logrus.Logger {
	return c.logger
}

// ObjectStore 获取对象存储
func (c *Container) ObjectStore() storage.ObjectStore {
	return c.objectStore
}

// FormService 获取表单服务
func (c *Container) FormService() service.FormService {
	return c.formService
}

// UploadService 获取上传服务
func (c *Container) UploadService() service.UploadService {
	return c.uploadService
}

// Close 关闭容器,清理资源
func (c *Container) Close() error {
	if c.poolCollector != nil {
		c.poolCollector.Stop()
	}
	if c.db != nil {
		sqlDB, err := c.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	return nil
}
