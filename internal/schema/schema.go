package schema

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/model"
)

// Violation 单条校验违规,Path 定位到出错字段(如 fields[2].label)
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result 校验结果,收集全部违规而不是遇错即停
// 调用方可以一次性展示完整的错误报告
type Result struct {
	Violations []Violation
}

// Valid 判断是否通过校验
func (r *Result) Valid() bool {
	return len(r.Violations) == 0
}

// Error 实现 error 接口,汇总所有违规
func (r *Result) Error() string {
	if r.Valid() {
		return ""
	}
	parts := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		parts = append(parts, v.Path+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (r *Result) add(path, message string) {
	r.Violations = append(r.Violations, Violation{Path: path, Message: message})
}

// ValidateForm 校验完整表单
// 规则: name 非空、pdfUrl 为合法 URL、fields 至少一个且每个字段内部合法
func ValidateForm(form *model.Form) *Result {
	res := &Result{}
	if form == nil {
		res.add("", "form is required")
		return res
	}

	if strings.TrimSpace(form.Name) == "" {
		res.add("name", "name cannot be empty")
	}
	validatePDFURL(res, "pdfUrl", form.PDFURL)

	if len(form.Fields) == 0 {
		res.add("fields", "at least one field is required")
	}
	for i := range form.Fields {
		validateField(res, fmt.Sprintf("fields[%d]", i), &form.Fields[i])
	}

	return res
}

// ValidateField 校验单个字段(字段级操作复用)
func ValidateField(field *model.FormField) *Result {
	res := &Result{}
	if field == nil {
		res.add("", "field is required")
		return res
	}
	validateField(res, "", field)
	return res
}

func validateField(res *Result, path string, field *model.FormField) {
	if strings.TrimSpace(field.Name) == "" {
		res.add(join(path, "name"), "field name cannot be empty")
	}
	if strings.TrimSpace(field.Label) == "" {
		res.add(join(path, "label"), "field label cannot be empty")
	}
	if !field.Type.Valid() {
		res.add(join(path, "type"), fmt.Sprintf("unknown field type %q", field.Type))
	}

	for i, opt := range field.Options {
		if strings.TrimSpace(opt.Value) == "" {
			res.add(join(path, fmt.Sprintf("options[%d].value", i)), "option value cannot be empty")
		}
		if strings.TrimSpace(opt.Label) == "" {
			res.add(join(path, fmt.Sprintf("options[%d].label", i)), "option label cannot be empty")
		}
	}

	if pos := field.Position; pos != nil {
		if pos.Width < 0 {
			res.add(join(path, "position.width"), "width cannot be negative")
		}
		if pos.Height < 0 {
			res.add(join(path, "position.height"), "height cannot be negative")
		}
		if pos.PDFPageNo < 1 {
			res.add(join(path, "position.pdfPageNo"), "pdfPageNo must be at least 1")
		}
	}

	if rules := field.Validation; rules != nil {
		validateRules(res, join(path, "validation"), rules)
	}
}

func validateRules(res *Result, path string, rules *model.FieldValidation) {
	if rules.MinLength != nil && *rules.MinLength < 0 {
		res.add(path+".minLength", "minLength cannot be negative")
	}
	if rules.MaxLength != nil && *rules.MaxLength < 0 {
		res.add(path+".maxLength", "maxLength cannot be negative")
	}
	if rules.MinLength != nil && rules.MaxLength != nil && *rules.MinLength > *rules.MaxLength {
		res.add(path+".minLength", "minLength cannot exceed maxLength")
	}
	if rules.Min != nil && rules.Max != nil && *rules.Min > *rules.Max {
		res.add(path+".min", "min cannot exceed max")
	}
	if rules.Pattern != "" {
		if _, err := regexp.Compile(rules.Pattern); err != nil {
			res.add(path+".pattern", "pattern is not a valid regular expression")
		}
	}
}

func validatePDFURL(res *Result, path, raw string) {
	if strings.TrimSpace(raw) == "" {
		res.add(path, "pdfUrl cannot be empty")
		return
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		res.add(path, "pdfUrl must be a valid URL")
	}
}

func join(prefix, path string) string {
	if prefix == "" {
		return path
	}
	return prefix + "." + path
}
