package api

import (
	"net/http"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/config"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/metrics"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes 配置路由
// 表单集合端点按动词注册,具体分支由控制器根据查询参数分发;
// 未支持的动词返回 405 并携带 Allow 头
func SetupRoutes(
	formController *FormController,
	uploadController *UploadController,
	db *gorm.DB,
	corsCfg *config.CORSConfig,
) *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(RequestIDMiddleware())
	router.Use(RequestLogMiddleware())
	router.Use(RecoveryMiddleware())
	if corsCfg != nil {
		router.Use(CORSMiddleware(corsCfg.AllowedOrigins))
	}

	// 健康检查
	healthController := NewHealthController(db)
	router.GET("/health", healthController.Check)

	// Prometheus 指标端点
	metrics.Register()
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// 表单集合端点
	forms := router.Group("/api/forms")
	{
		forms.POST("", formController.Create)
		forms.GET("", formController.Get)
		forms.PUT("", formController.Update)
		forms.DELETE("", formController.Delete)
	}

	// PDF 上传端点(对象存储未配置时不注册)
	if uploadController != nil {
		router.POST("/api/uploads/pdf", uploadController.UploadPDF)
	}

	// 未支持的动词返回 405 + Allow 头
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.Header("Allow", "GET, POST, PUT, DELETE")
		Fail(c, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	// 未匹配的路由返回 JSON 格式的 404
	router.NoRoute(func(c *gin.Context) {
		Fail(c, http.StatusNotFound, "route not found", nil)
	})

	return router
}
