package repository

import (
	"errors"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/model"
	"gorm.io/gorm"
)

// ErrRevisionConflict 乐观并发冲突: 条件更新未命中任何行
var ErrRevisionConflict = errors.New("form revision conflict")

// FormRepository 表单仓储接口
type FormRepository interface {
	Create(doc *model.FormDocument) error
	FindByID(id string) (*model.FormDocument, error)
	FindPage(limit, offset int) ([]*model.FormDocument, error)
	Count() (int64, error)
	// UpdateCAS 以 revision 为条件写入,防止字段级读改写丢失更新
	UpdateCAS(doc *model.FormDocument, expectedRevision int64) error
	Delete(id string) (bool, error)
	Search(term string, ownerID string) ([]*model.FormDocument, error)
}

// formRepository 表单仓储实现
type formRepository struct {
	db *gorm.DB
}

// NewFormRepository 创建表单仓储
func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepository{db: db}
}

// Create 新建表单文档
func (r *formRepository) Create(doc *model.FormDocument) error {
	return r.db.Create(doc).Error
}

// FindByID 根据 ID 查找表单文档
func (r *formRepository) FindByID(id string) (*model.FormDocument, error) {
	var doc model.FormDocument
	if err := r.db.Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindPage 分页查询,创建时间倒序
// 使用 (created_at, id) 复合排序键保证并发插入下顺序稳定,
// 不会出现翻页时跳行或重复
func (r *formRepository) FindPage(limit, offset int) ([]*model.FormDocument, error) {
	var docs []*model.FormDocument
	err := r.db.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&docs).Error
	return docs, err
}

// Count 统计表单总数(与分页窗口无关)
func (r *formRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&model.FormDocument{}).Count(&total).Error
	return total, err
}

// UpdateCAS 条件更新
// WHERE id = ? AND revision = ? 保证自读取以来文档未被并发修改;
// 未命中返回 ErrRevisionConflict,由服务层决定重试
func (r *formRepository) UpdateCAS(doc *model.FormDocument, expectedRevision int64) error {
	doc.Revision = expectedRevision + 1
	result := r.db.Model(&model.FormDocument{}).
		Where("id = ? AND revision = ?", doc.ID, expectedRevision).
		Updates(map[string]interface{}{
			"name":        doc.Name,
			"description": doc.Description,
			"pdf_url":     doc.PDFURL,
			"fields":      doc.Fields,
			"revision":    doc.Revision,
			"updated_at":  doc.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRevisionConflict
	}
	return nil
}

// Delete 删除表单文档,返回是否实际删除了记录
func (r *formRepository) Delete(id string) (bool, error) {
	result := r.db.Where("id = ?", id).Delete(&model.FormDocument{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Search 在 name/description 上做大小写不敏感的子串匹配
// ownerID 非空时额外按创建人过滤;结果按创建时间倒序
func (r *formRepository) Search(term string, ownerID string) ([]*model.FormDocument, error) {
	var docs []*model.FormDocument
	pattern := "%" + term + "%"
	query := r.db.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	if ownerID != "" {
		query = query.Where("created_by = ?", ownerID)
	}
	err := query.Order("created_at DESC, id DESC").Find(&docs).Error
	return docs, err
}
