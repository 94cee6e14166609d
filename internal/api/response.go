package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应信封
// @Description 统一响应格式,success 标识成败,data 为业务数据
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`    // 业务数据
	Message string      `json:"message,omitempty"` // 人类可读的提示信息
	Error   interface{} `json:"error,omitempty"`   // 结构化错误明细(可选)
}

// ListFormsData 列表响应数据
// total 为全部表单数,与分页窗口无关
type ListFormsData struct {
	Forms interface{} `json:"forms"`
	Total int64       `json:"total"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// SuccessMessage 无数据的成功响应
func SuccessMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
	})
}

// Fail 失败响应
func Fail(c *gin.Context, code int, message string, detail interface{}) {
	statusCode := http.StatusInternalServerError
	if code >= 400 && code < 600 {
		statusCode = code
	}

	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Error:   detail,
	})
}
