package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware 恐慌恢复中间件
// 分发过程中的任何未处理异常转换为 500 信封,
// 响应体只携带一条消息字符串,不泄露堆栈
func RecoveryMiddleware() gin.HandlerFunc {
	logger := GetLogger()

	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(map[string]interface{}{
					"request_id": c.GetString("request_id"),
					"path":       c.Request.URL.Path,
				}).Errorf("panic recovered: %v", r)

				c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
					Success: false,
					Message: fmt.Sprintf("internal server error: %v", r),
				})
			}
		}()
		c.Next()
	}
}
