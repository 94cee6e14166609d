package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info 上传 PDF 的检查结果
type Info struct {
	PageCount int
	Encrypted bool
}

// Inspect 解析 PDF 字节流并返回页数等信息
// 无法解析的内容(非 PDF、截断文件)返回错误,上传入口以此拒绝非法文档
func Inspect(data []byte) (*Info, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to resolve page count: %w", err)
	}

	return &Info{
		PageCount: ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
	}, nil
}
