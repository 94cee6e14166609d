package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/metrics"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/pdf"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxPDFSize 上传 PDF 的大小上限(20 MiB)
const maxPDFSize = 20 << 20

// ErrInvalidPDF 上传内容不是可解析的 PDF 文档
var ErrInvalidPDF = errors.New("uploaded file is not a valid PDF")

// ErrPDFTooLarge 上传内容超出大小上限
var ErrPDFTooLarge = errors.New("uploaded PDF exceeds size limit")

// UploadResult PDF 上传结果
type UploadResult struct {
	URL       string `json:"url"`
	Key       string `json:"key"`
	PageCount int    `json:"pageCount"`
	Size      int64  `json:"size"`
}

// UploadService PDF 上传服务接口
type UploadService interface {
	UploadPDF(ctx context.Context, filename string, data []byte) (*UploadResult, error)
}

type uploadService struct {
	store  storage.ObjectStore
	logger *logrus.Logger
}

// NewUploadService 创建上传服务
func NewUploadService(store storage.ObjectStore, logger *logrus.Logger) UploadService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &uploadService{store: store, logger: logger}
}

// UploadPDF 校验并存储上传的 PDF,返回表单可引用的 pdfUrl
// 先用 pdfcpu 解析确认内容是合法 PDF 并取得页数,再写入对象存储
func (s *uploadService) UploadPDF(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	if int64(len(data)) > maxPDFSize {
		metrics.RecordPDFUpload(false)
		return nil, ErrPDFTooLarge
	}

	info, err := pdf.Inspect(data)
	if err != nil {
		metrics.RecordPDFUpload(false)
		s.logger.WithField("filename", filename).Warnf("rejected PDF upload: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	key := fmt.Sprintf("pdf/%s.pdf", uuid.NewString())
	if err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "application/pdf"); err != nil {
		metrics.RecordPDFUpload(false)
		return nil, persistence("upload_pdf", err)
	}

	metrics.RecordPDFUpload(true)
	return &UploadResult{
		URL:       s.store.PublicURL(key),
		Key:       key,
		PageCount: info.PageCount,
		Size:      int64(len(data)),
	}, nil
}
