package client

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/model"
)

// ValidationReport 草稿值的校验报告
// Errors 以字段名为键,每个字段最多一条错误
type ValidationReport struct {
	Valid  bool
	Errors map[string]string
}

// ValidateFormData 按当前选中表单的字段定义校验草稿值
// 只读操作,不改动任何缓存状态。没有选中表单时视为通过。
func (s *Store) ValidateFormData() ValidationReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := ValidationReport{Valid: true, Errors: make(map[string]string)}
	if s.selectedForm == nil {
		return report
	}

	for i := range s.selectedForm.Fields {
		field := &s.selectedForm.Fields[i]
		value, present := s.formData[field.Name]
		if !present {
			value = EmptyValue()
		}
		if msg := validateFieldValue(field, value); msg != "" {
			report.Errors[field.Name] = msg
			report.Valid = false
		}
	}
	return report
}

// validateFieldValue 校验单个字段的草稿值,返回第一条错误信息
// 必填检查按字段类型区分:checkbox 需要至少一个选中项,
// file 需要文件引用,其余类型需要非空文本/数值
func validateFieldValue(field *model.FormField, value FieldValue) string {
	if field.Required && value.IsEmpty() {
		return fmt.Sprintf("%s is required", field.Label)
	}
	if value.IsEmpty() {
		return ""
	}

	switch field.Type {
	case model.FieldTypeCheckbox:
		if value.Kind() != ValueMultiSelect {
			return fmt.Sprintf("%s expects one or more selections", field.Label)
		}
	case model.FieldTypeFile:
		if value.Kind() != ValueFile {
			return fmt.Sprintf("%s expects a file", field.Label)
		}
	case model.FieldTypeNumber:
		if value.Kind() != ValueNumber {
			return fmt.Sprintf("%s must be a number", field.Label)
		}
		return validateNumberRules(field, value.Number())
	default:
		if value.Kind() != ValueText {
			return fmt.Sprintf("%s must be text", field.Label)
		}
		return validateTextRules(field, value.Text())
	}
	return ""
}

func validateNumberRules(field *model.FormField, n float64) string {
	rules := field.Validation
	if rules == nil {
		return ""
	}
	if rules.Min != nil && n < *rules.Min {
		return fmt.Sprintf("%s must be at least %v", field.Label, *rules.Min)
	}
	if rules.Max != nil && n > *rules.Max {
		return fmt.Sprintf("%s must be at most %v", field.Label, *rules.Max)
	}
	return ""
}

func validateTextRules(field *model.FormField, text string) string {
	rules := field.Validation
	if rules == nil {
		return ""
	}
	trimmed := strings.TrimSpace(text)
	if rules.MinLength != nil && len([]rune(trimmed)) < *rules.MinLength {
		return fmt.Sprintf("%s must be at least %d characters", field.Label, *rules.MinLength)
	}
	if rules.MaxLength != nil && len([]rune(trimmed)) > *rules.MaxLength {
		return fmt.Sprintf("%s must be at most %d characters", field.Label, *rules.MaxLength)
	}
	if rules.Pattern != "" {
		re, err := regexp.Compile(rules.Pattern)
		if err != nil {
			// 非法 pattern 在 schema 校验阶段已经被拦下,这里不再报给填写者
			return ""
		}
		if !re.MatchString(trimmed) {
			return fmt.Sprintf("%s has an invalid format", field.Label)
		}
	}
	return ""
}
