package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/service"
	"github.com/gin-gonic/gin"
)

// UploadController PDF 上传控制器
type UploadController struct {
	uploadService service.UploadService
}

// NewUploadController 创建上传控制器
func NewUploadController(uploadService service.UploadService) *UploadController {
	return &UploadController{
		uploadService: uploadService,
	}
}

// UploadPDF 上传 PDF 文档
// POST /api/uploads/pdf,multipart 表单字段名为 file
// 返回对象存储地址和页数,前者作为表单的 pdfUrl 使用
func (c *UploadController) UploadPDF(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		Fail(ctx, http.StatusBadRequest, "missing file field", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		Fail(ctx, http.StatusBadRequest, "failed to open uploaded file", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		Fail(ctx, http.StatusBadRequest, "failed to read uploaded file", err.Error())
		return
	}

	result, err := c.uploadService.UploadPDF(ctx.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPDF):
			Fail(ctx, http.StatusBadRequest, "uploaded file is not a valid PDF", err.Error())
		case errors.Is(err, service.ErrPDFTooLarge):
			Fail(ctx, http.StatusRequestEntityTooLarge, "uploaded PDF exceeds size limit", nil)
		default:
			Fail(ctx, http.StatusInternalServerError, "failed to store PDF", err.Error())
		}
		return
	}

	Created(ctx, result)
}
