package model

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// FormDocument 表单持久化模型
// fields 以 JSON 文档形式整体存储;revision 用于字段级读改写的乐观并发控制
type FormDocument struct {
	ID          string         `gorm:"primaryKey;type:varchar(64)"`
	Name        string         `gorm:"type:varchar(255);not null"`
	Description string         `gorm:"type:text"`
	PDFURL      string         `gorm:"column:pdf_url;type:text;not null"`
	Fields      datatypes.JSON `gorm:"not null"` // 序列化后的 FormField 数组
	Revision    int64          `gorm:"not null;default:0"`
	CreatedBy   string         `gorm:"type:varchar(64);index"`
	CreatedAt   time.Time      `gorm:"not null;index"`
	UpdatedAt   time.Time      `gorm:"not null;index"`
}

// TableName 指定表名
func (FormDocument) TableName() string {
	return "forms"
}

// Validate 验证持久化模型
func (d *FormDocument) Validate() error {
	if d.ID == "" {
		return errors.New("form ID is required")
	}
	if d.Name == "" {
		return errors.New("form name is required")
	}
	if d.PDFURL == "" {
		return errors.New("form pdf_url is required")
	}
	if len(d.Fields) == 0 {
		return errors.New("form fields are required")
	}
	return nil
}
