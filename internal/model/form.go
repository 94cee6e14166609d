package model

// FieldType 表单字段类型
type FieldType string

// 支持的字段类型（封闭枚举）
const (
	FieldTypeInput    FieldType = "input"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeDate     FieldType = "date"
	FieldTypeNumber   FieldType = "number"
	FieldTypeEmail    FieldType = "email"
	FieldTypeFile     FieldType = "file"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
)

// fieldTypes 封闭枚举集合
var fieldTypes = map[FieldType]struct{}{
	FieldTypeInput:    {},
	FieldTypeTextarea: {},
	FieldTypeSelect:   {},
	FieldTypeDate:     {},
	FieldTypeNumber:   {},
	FieldTypeEmail:    {},
	FieldTypeFile:     {},
	FieldTypeCheckbox: {},
	FieldTypeRadio:    {},
}

// Valid 判断字段类型是否在枚举范围内
func (t FieldType) Valid() bool {
	_, ok := fieldTypes[t]
	return ok
}

// FieldTypes 返回所有支持的字段类型
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeInput, FieldTypeTextarea, FieldTypeSelect,
		FieldTypeDate, FieldTypeNumber, FieldTypeEmail,
		FieldTypeFile, FieldTypeCheckbox, FieldTypeRadio,
	}
}

// Form 表单定义
// 一个表单由 PDF 文档地址和一组定位在文档上的输入字段组成
type Form struct {
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	PDFURL      string      `json:"pdfUrl"`
	Fields      []FormField `json:"fields"`
	CreatedBy   string      `json:"createdBy,omitempty"`
	CreatedAt   string      `json:"createdAt,omitempty"` // ISO-8601,服务端写入
	UpdatedAt   string      `json:"updatedAt,omitempty"` // ISO-8601,每次变更刷新
}

// FormField 表单字段
type FormField struct {
	ID          string           `json:"id,omitempty"`
	Name        string           `json:"name"`  // 提交数据的键
	Label       string           `json:"label"` // 展示名称
	Type        FieldType        `json:"type"`
	Required    bool             `json:"required,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
	Options     []SelectOption   `json:"options,omitempty"`
	Position    *FieldPosition   `json:"position,omitempty"`
	Validation  *FieldValidation `json:"validation,omitempty"`
}

// SelectOption 选项(select/radio/checkbox 类型使用)
type SelectOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldPosition 字段在 PDF 文档上的位置
type FieldPosition struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	PDFPageNo int     `json:"pdfPageNo"`
}

// FieldValidation 字段校验规则
// 所有规则均可选,使用指针区分"未设置"和零值
type FieldValidation struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
}

// FormPatch 表单部分更新
// 仅包含允许调用方修改的字段;id 和 createdAt 不可通过更新修改
type FormPatch struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	PDFURL      *string      `json:"pdfUrl,omitempty"`
	Fields      *[]FormField `json:"fields,omitempty"`
}

// FieldPatch 字段部分更新
// id 不可修改,保证字段身份稳定
type FieldPatch struct {
	Name        *string          `json:"name,omitempty"`
	Label       *string          `json:"label,omitempty"`
	Type        *FieldType       `json:"type,omitempty"`
	Required    *bool            `json:"required,omitempty"`
	Placeholder *string          `json:"placeholder,omitempty"`
	Options     *[]SelectOption  `json:"options,omitempty"`
	Position    *FieldPosition   `json:"position,omitempty"`
	Validation  *FieldValidation `json:"validation,omitempty"`
}

// FindField 按 ID 查找字段,返回下标;未找到返回 -1
func (f *Form) FindField(fieldID string) int {
	for i := range f.Fields {
		if f.Fields[i].ID == fieldID {
			return i
		}
	}
	return -1
}

// Apply 将补丁应用到字段上,id 保持不变
func (p *FieldPatch) Apply(field *FormField) {
	if p.Name != nil {
		field.Name = *p.Name
	}
	if p.Label != nil {
		field.Label = *p.Label
	}
	if p.Type != nil {
		field.Type = *p.Type
	}
	if p.Required != nil {
		field.Required = *p.Required
	}
	if p.Placeholder != nil {
		field.Placeholder = *p.Placeholder
	}
	if p.Options != nil {
		field.Options = *p.Options
	}
	if p.Position != nil {
		field.Position = p.Position
	}
	if p.Validation != nil {
		field.Validation = p.Validation
	}
}
