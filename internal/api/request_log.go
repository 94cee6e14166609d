package api

import (
	"time"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 抓取器和负载均衡探测的端点,成功时不记日志但仍计入指标
var quietPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// RequestLogMiddleware 请求日志与指标中间件
// 集合端点按查询参数分发,query 一并记录,否则日志区分不开具体操作
func RequestLogMiddleware() gin.HandlerFunc {
	logger := GetLogger()

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.RecordAPIRequest(method, path, status, elapsed.Seconds())

		if _, quiet := quietPaths[path]; quiet && status < 400 {
			return
		}

		entry := logger.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     method,
			"path":       path,
			"query":      c.Request.URL.RawQuery,
			"status":     status,
			"bytes":      c.Writer.Size(),
			"latency_ms": elapsed.Milliseconds(),
			"ip":         c.ClientIP(),
		})

		switch {
		case status >= 500:
			entry.Error("request completed")
		case status >= 400:
			entry.Warn("request completed")
		default:
			entry.Info("request completed")
		}
	}
}
