package document

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/model"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/schema"
	"github.com/google/uuid"
)

// EnsureFieldIDs 为缺少 ID 的字段生成 UUID
// 幂等: 已有 ID 的字段原样保留
func EnsureFieldIDs(fields []model.FormField) []model.FormField {
	for i := range fields {
		if fields[i].ID == "" {
			fields[i].ID = uuid.NewString()
		}
	}
	return fields
}

// ToDocument 将领域表单转换为持久化文档
// 时间戳由调用方(服务层)负责写入 CreatedAt/UpdatedAt
func ToDocument(form *model.Form) (*model.FormDocument, error) {
	raw, err := json.Marshal(form.Fields)
	if err != nil {
		return nil, fmt.Errorf("marshal form fields: %w", err)
	}
	return &model.FormDocument{
		ID:          form.ID,
		Name:        form.Name,
		Description: form.Description,
		PDFURL:      form.PDFURL,
		Fields:      raw,
		CreatedBy:   form.CreatedBy,
	}, nil
}

// FromDocument 将持久化文档还原为领域表单并重新校验
// 损坏或不合法的文档不会被部分返回,而是报告为错误
func FromDocument(doc *model.FormDocument) (*model.Form, error) {
	form, err := FromDocumentUnchecked(doc)
	if err != nil {
		return nil, err
	}
	if res := schema.ValidateForm(form); !res.Valid() {
		return nil, fmt.Errorf("stored form %s failed validation: %s", doc.ID, res.Error())
	}
	return form, nil
}

// FromDocumentUnchecked 还原领域表单但不做模式校验
// 供更新路径使用: 合并后的结果由调用方显式校验,校验失败的合并不落库
func FromDocumentUnchecked(doc *model.FormDocument) (*model.Form, error) {
	var fields []model.FormField
	if err := json.Unmarshal(doc.Fields, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields of form %s: %w", doc.ID, err)
	}
	return &model.Form{
		ID:          doc.ID,
		Name:        doc.Name,
		Description: doc.Description,
		PDFURL:      doc.PDFURL,
		Fields:      fields,
		CreatedBy:   doc.CreatedBy,
		CreatedAt:   doc.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   doc.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// MergeUpdate 将补丁合并到已有文档上
// 仅允许修改 name/description/pdfUrl/fields;id 和 createdAt 由存储层持有,
// 补丁中出现也会被忽略。fields 被替换时重新补齐字段 ID。
func MergeUpdate(doc *model.FormDocument, patch *model.FormPatch) error {
	if patch.Name != nil {
		doc.Name = *patch.Name
	}
	if patch.Description != nil {
		doc.Description = *patch.Description
	}
	if patch.PDFURL != nil {
		doc.PDFURL = *patch.PDFURL
	}
	if patch.Fields != nil {
		fields := EnsureFieldIDs(*patch.Fields)
		raw, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("marshal patched fields: %w", err)
		}
		doc.Fields = raw
	}
	return nil
}

// ReplaceFields 用新的字段序列覆盖文档的 fields 列
func ReplaceFields(doc *model.FormDocument, fields []model.FormField) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	doc.Fields = raw
	return nil
}

// DecodeFields 解出文档中存储的字段序列
func DecodeFields(doc *model.FormDocument) ([]model.FormField, error) {
	var fields []model.FormField
	if err := json.Unmarshal(doc.Fields, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields of form %s: %w", doc.ID, err)
	}
	return fields, nil
}
