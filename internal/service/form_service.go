package service

import (
	"context"
	"errors"
	"time"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/document"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/metrics"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/model"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/repository"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/schema"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// casRetries 字段级读改写在 revision 冲突时的最大重试次数
const casRetries = 3

// FormService 表单服务接口
type FormService interface {
	Create(ctx context.Context, req *CreateFormRequest) (*model.Form, error)
	Get(ctx context.Context, id string) (*model.Form, error)
	List(ctx context.Context, limit, offset int) ([]*model.Form, int64, error)
	Update(ctx context.Context, id string, patch *model.FormPatch) (*model.Form, error)
	Delete(ctx context.Context, id string) error
	// 字段级操作,整体读改写 + revision CAS
	AddField(ctx context.Context, formID string, field model.FormField) (*model.Form, error)
	UpdateField(ctx context.Context, formID, fieldID string, patch *model.FieldPatch) (*model.Form, error)
	RemoveField(ctx context.Context, formID, fieldID string) (*model.Form, error)
	Search(ctx context.Context, term, ownerID string) ([]*model.Form, error)
}

// CreateFormRequest 创建表单请求
type CreateFormRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	PDFURL      string            `json:"pdfUrl"`
	Fields      []model.FormField `json:"fields"`
	CreatedBy   string            `json:"-"` // 来自请求头,不接受 body 注入
}

type formService struct {
	repo   repository.FormRepository
	logger *logrus.Logger
}

// NewFormService 创建表单服务
func NewFormService(repo repository.FormRepository, logger *logrus.Logger) FormService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &formService{repo: repo, logger: logger}
}

// Create 创建表单
// 校验 → 补齐字段 ID → 持久化;时间戳由存储层写入,不接受调用方提供
func (s *formService) Create(ctx context.Context, req *CreateFormRequest) (*model.Form, error) {
	form := &model.Form{
		Name:        req.Name,
		Description: req.Description,
		PDFURL:      req.PDFURL,
		Fields:      req.Fields,
		CreatedBy:   req.CreatedBy,
	}

	if res := schema.ValidateForm(form); !res.Valid() {
		return nil, NewValidationError(res)
	}

	form.ID = uuid.NewString()
	form.Fields = document.EnsureFieldIDs(form.Fields)

	doc, err := document.ToDocument(form)
	if err != nil {
		return nil, persistence("create", err)
	}
	if err := s.repo.Create(doc); err != nil {
		return nil, persistence("create", err)
	}

	metrics.RecordFormCreated()
	return document.FromDocument(doc)
}

// Get 获取表单
// 存储文档损坏或校验不通过时按不存在处理,不会部分返回
func (s *formService) Get(ctx context.Context, id string) (*model.Form, error) {
	doc, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFormNotFound
		}
		return nil, persistence("get", err)
	}

	form, err := document.FromDocument(doc)
	if err != nil {
		s.logger.WithField("form_id", id).Warnf("stored form failed validation on read: %v", err)
		return nil, ErrFormNotFound
	}
	return form, nil
}

// List 分页列出表单,创建时间倒序
// total 为全部表单数,与分页窗口无关
func (s *formService) List(ctx context.Context, limit, offset int) ([]*model.Form, int64, error) {
	docs, err := s.repo.FindPage(limit, offset)
	if err != nil {
		return nil, 0, persistence("list", err)
	}
	total, err := s.repo.Count()
	if err != nil {
		return nil, 0, persistence("count", err)
	}

	forms := make([]*model.Form, 0, len(docs))
	for _, doc := range docs {
		form, err := document.FromDocument(doc)
		if err != nil {
			s.logger.WithField("form_id", doc.ID).Warnf("skipping invalid stored form: %v", err)
			continue
		}
		forms = append(forms, form)
	}
	return forms, total, nil
}

// Update 部分更新表单
// 合并仅限可变字段,合并结果整体重新校验后写入
func (s *formService) Update(ctx context.Context, id string, patch *model.FormPatch) (*model.Form, error) {
	form, err := s.withCASRetry(id, "update", func(doc *model.FormDocument) error {
		if err := document.MergeUpdate(doc, patch); err != nil {
			return persistence("update", err)
		}
		merged, err := document.FromDocumentUnchecked(doc)
		if err != nil {
			return persistence("update", err)
		}
		if res := schema.ValidateForm(merged); !res.Valid() {
			return NewValidationError(res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordFormOperation("update")
	return form, nil
}

// Delete 删除表单(硬删除)
func (s *formService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		return persistence("delete", err)
	}
	if !deleted {
		return ErrFormNotFound
	}
	metrics.RecordFormOperation("delete")
	return nil
}

// AddField 在表单末尾追加字段
func (s *formService) AddField(ctx context.Context, formID string, field model.FormField) (*model.Form, error) {
	if res := schema.ValidateField(&field); !res.Valid() {
		return nil, NewValidationError(res)
	}

	form, err := s.withCASRetry(formID, "add_field", func(doc *model.FormDocument) error {
		fields, err := document.DecodeFields(doc)
		if err != nil {
			return persistence("add_field", err)
		}
		withID := document.EnsureFieldIDs([]model.FormField{field})
		fields = append(fields, withID[0])
		return document.ReplaceFields(doc, fields)
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordFormOperation("add_field")
	return form, nil
}

// UpdateField 更新指定字段,字段 ID 保持不变
func (s *formService) UpdateField(ctx context.Context, formID, fieldID string, patch *model.FieldPatch) (*model.Form, error) {
	form, err := s.withCASRetry(formID, "update_field", func(doc *model.FormDocument) error {
		fields, err := document.DecodeFields(doc)
		if err != nil {
			return persistence("update_field", err)
		}
		idx := indexOfField(fields, fieldID)
		if idx < 0 {
			return ErrFieldNotFound
		}
		patch.Apply(&fields[idx])
		if res := schema.ValidateField(&fields[idx]); !res.Valid() {
			return NewValidationError(res)
		}
		return document.ReplaceFields(doc, fields)
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordFormOperation("update_field")
	return form, nil
}

// RemoveField 从表单中移除指定字段
// 字段不存在时报 ErrFieldNotFound,剩余字段不受影响
func (s *formService) RemoveField(ctx context.Context, formID, fieldID string) (*model.Form, error) {
	form, err := s.withCASRetry(formID, "remove_field", func(doc *model.FormDocument) error {
		fields, err := document.DecodeFields(doc)
		if err != nil {
			return persistence("remove_field", err)
		}
		idx := indexOfField(fields, fieldID)
		if idx < 0 {
			return ErrFieldNotFound
		}
		fields = append(fields[:idx], fields[idx+1:]...)
		return document.ReplaceFields(doc, fields)
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordFormOperation("remove_field")
	return form, nil
}

// Search 按关键词搜索表单(name/description 子串,大小写不敏感)
// 搜索结果与普通读取一样经过还原校验,不合法的文档被跳过
func (s *formService) Search(ctx context.Context, term, ownerID string) ([]*model.Form, error) {
	docs, err := s.repo.Search(term, ownerID)
	if err != nil {
		return nil, persistence("search", err)
	}

	forms := make([]*model.Form, 0, len(docs))
	for _, doc := range docs {
		form, err := document.FromDocument(doc)
		if err != nil {
			s.logger.WithField("form_id", doc.ID).Warnf("skipping invalid stored form in search: %v", err)
			continue
		}
		forms = append(forms, form)
	}
	metrics.RecordFormOperation("search")
	return forms, nil
}

// withCASRetry 对单个表单文档执行读改写
// 读取 → mutate 修改文档 → 条件写入;revision 冲突时重读重试,
// 保证并发字段操作不会互相覆盖
func (s *formService) withCASRetry(formID, op string, mutate func(*model.FormDocument) error) (*model.Form, error) {
	var lastErr error
	for attempt := 0; attempt < casRetries; attempt++ {
		doc, err := s.repo.FindByID(formID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrFormNotFound
			}
			return nil, persistence(op, err)
		}

		expected := doc.Revision
		if err := mutate(doc); err != nil {
			return nil, err
		}
		doc.UpdatedAt = time.Now().UTC()

		err = s.repo.UpdateCAS(doc, expected)
		if err == nil {
			return document.FromDocument(doc)
		}
		if !errors.Is(err, repository.ErrRevisionConflict) {
			return nil, persistence(op, err)
		}

		metrics.RecordFieldUpdateConflict()
		s.logger.WithFields(logrus.Fields{
			"form_id":   formID,
			"operation": op,
			"attempt":   attempt + 1,
		}).Debug("revision conflict, retrying")
		lastErr = err
	}
	return nil, persistence(op, lastErr)
}

func indexOfField(fields []model.FormField, fieldID string) int {
	for i := range fields {
		if fields[i].ID == fieldID {
			return i
		}
	}
	return -1
}
