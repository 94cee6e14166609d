package schema

import (
	"testing"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() *model.Form {
	return &model.Form{
		Name:   "入职登记表",
		PDFURL: "https://files.example.com/onboarding.pdf",
		Fields: []model.FormField{
			{ID: "f1", Name: "fullName", Label: "姓名", Type: model.FieldTypeInput},
		},
	}
}

func TestValidateForm_Valid(t *testing.T) {
	res := ValidateForm(validForm())
	assert.True(t, res.Valid())
	assert.Empty(t, res.Violations)
	assert.Equal(t, "", res.Error())
}

func TestValidateForm_CollectsAllViolations(t *testing.T) {
	// 多处不合法时应一次性收集全部违规,而不是遇错即停
	form := &model.Form{
		Name:   "   ",
		PDFURL: "not a url",
		Fields: []model.FormField{
			{Name: "", Label: "", Type: "unknown"},
		},
	}

	res := ValidateForm(form)
	require.False(t, res.Valid())

	paths := make([]string, 0, len(res.Violations))
	for _, v := range res.Violations {
		paths = append(paths, v.Path)
	}
	assert.Contains(t, paths, "name")
	assert.Contains(t, paths, "pdfUrl")
	assert.Contains(t, paths, "fields[0].name")
	assert.Contains(t, paths, "fields[0].label")
	assert.Contains(t, paths, "fields[0].type")
}

func TestValidateForm_NilForm(t *testing.T) {
	res := ValidateForm(nil)
	require.False(t, res.Valid())
	assert.Len(t, res.Violations, 1)
}

func TestValidateForm_EmptyFields(t *testing.T) {
	form := validForm()
	form.Fields = nil

	res := ValidateForm(form)
	require.False(t, res.Valid())
	assert.Equal(t, "fields", res.Violations[0].Path)
}

func TestValidateForm_PDFURL(t *testing.T) {
	cases := []struct {
		name   string
		pdfURL string
		valid  bool
	}{
		{"https", "https://example.com/a.pdf", true},
		{"http", "http://example.com/a.pdf", true},
		{"empty", "", false},
		{"blank", "   ", false},
		{"no scheme", "example.com/a.pdf", false},
		{"no host", "https://", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			form.PDFURL = tc.pdfURL
			assert.Equal(t, tc.valid, ValidateForm(form).Valid())
		})
	}
}

func TestValidateField_Options(t *testing.T) {
	field := &model.FormField{
		Name:  "dept",
		Label: "部门",
		Type:  model.FieldTypeSelect,
		Options: []model.SelectOption{
			{Value: "eng", Label: "研发"},
			{Value: "", Label: ""},
		},
	}

	res := ValidateField(field)
	require.False(t, res.Valid())
	assert.Len(t, res.Violations, 2)
	assert.Equal(t, "options[1].value", res.Violations[0].Path)
	assert.Equal(t, "options[1].label", res.Violations[1].Path)
}

func TestValidateField_Position(t *testing.T) {
	field := &model.FormField{
		Name:  "sig",
		Label: "签名",
		Type:  model.FieldTypeInput,
		Position: &model.FieldPosition{
			X: 10, Y: 20, Width: -1, Height: -2, PDFPageNo: 0,
		},
	}

	res := ValidateField(field)
	require.False(t, res.Valid())
	assert.Len(t, res.Violations, 3)
}

func TestValidateField_Rules(t *testing.T) {
	minLen, maxLen := 10, 5
	min, max := 100.0, 1.0
	field := &model.FormField{
		Name:  "code",
		Label: "编号",
		Type:  model.FieldTypeInput,
		Validation: &model.FieldValidation{
			MinLength: &minLen,
			MaxLength: &maxLen,
			Min:       &min,
			Max:       &max,
			Pattern:   "[unclosed",
		},
	}

	res := ValidateField(field)
	require.False(t, res.Valid())

	paths := make([]string, 0, len(res.Violations))
	for _, v := range res.Violations {
		paths = append(paths, v.Path)
	}
	assert.Contains(t, paths, "validation.minLength")
	assert.Contains(t, paths, "validation.min")
	assert.Contains(t, paths, "validation.pattern")
}

func TestValidateField_NegativeLengths(t *testing.T) {
	neg := -1
	field := &model.FormField{
		Name:  "memo",
		Label: "备注",
		Type:  model.FieldTypeTextarea,
		Validation: &model.FieldValidation{
			MinLength: &neg,
			MaxLength: &neg,
		},
	}

	res := ValidateField(field)
	require.False(t, res.Valid())
	assert.Len(t, res.Violations, 2)
}

func TestResult_Error(t *testing.T) {
	res := &Result{}
	res.add("name", "name cannot be empty")
	res.add("pdfUrl", "pdfUrl cannot be empty")

	assert.Equal(t,
		"validation failed: name: name cannot be empty; pdfUrl: pdfUrl cannot be empty",
		res.Error())
}
