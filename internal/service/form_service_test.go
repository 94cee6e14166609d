package service

import (
	"context"
	"io"
	"testing"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/database"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/model"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (FormService, repository.FormRepository) {
	t.Helper()
	db, err := database.OpenForTest()
	require.NoError(t, err)
	repo := repository.NewFormRepository(db)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewFormService(repo, logger), repo
}

func createRequest() *CreateFormRequest {
	return &CreateFormRequest{
		Name:   "入职登记表",
		PDFURL: "https://files.example.com/onboarding.pdf",
		Fields: []model.FormField{
			{Name: "fullName", Label: "姓名", Type: model.FieldTypeInput, Required: true},
			{Name: "startDate", Label: "入职日期", Type: model.FieldTypeDate},
		},
		CreatedBy: "owner-1",
	}
}

func TestCreate(t *testing.T) {
	svc, _ := newTestService(t)

	form, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, form.ID)
	assert.Equal(t, "owner-1", form.CreatedBy)
	assert.NotEmpty(t, form.CreatedAt)
	assert.Equal(t, form.CreatedAt, form.UpdatedAt)
	// 字段 ID 由服务端补齐
	for _, f := range form.Fields {
		assert.NotEmpty(t, f.ID)
	}
}

func TestCreate_ValidationFailurePersistsNothing(t *testing.T) {
	svc, repo := newTestService(t)

	req := createRequest()
	req.Name = ""
	req.PDFURL = "not a url"

	_, err := svc.Create(context.Background(), req)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.GreaterOrEqual(t, len(vErr.Violations()), 2)

	total, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestGet(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	form, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, form.ID)
	assert.Equal(t, created.Fields, form.Fields)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestList(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), createRequest())
		require.NoError(t, err)
	}

	forms, total, err := svc.List(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Len(t, forms, 2)
	assert.Equal(t, int64(3), total)
}

func TestUpdate(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	name := "新名称"
	form, err := svc.Update(context.Background(), created.ID, &model.FormPatch{Name: &name})
	require.NoError(t, err)

	// 补丁未提及的属性不动,id/createdAt 不可变
	assert.Equal(t, "新名称", form.Name)
	assert.Equal(t, created.ID, form.ID)
	assert.Equal(t, created.PDFURL, form.PDFURL)
	assert.Equal(t, created.CreatedAt, form.CreatedAt)
}

func TestUpdate_InvalidMergeNotPersisted(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	empty := ""
	_, err = svc.Update(context.Background(), created.ID, &model.FormPatch{Name: &empty})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	// 校验失败的合并不落库
	form, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, form.Name)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	name := "x"
	_, err := svc.Update(context.Background(), "missing", &model.FormPatch{Name: &name})
	assert.ErrorIs(t, err, ErrFormNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID), ErrFormNotFound)
}

func TestAddField(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	form, err := svc.AddField(context.Background(), created.ID, model.FormField{
		Name: "email", Label: "邮箱", Type: model.FieldTypeEmail,
	})
	require.NoError(t, err)

	require.Len(t, form.Fields, 3)
	added := form.Fields[2]
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "email", added.Name)
}

func TestAddField_Invalid(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	_, err = svc.AddField(context.Background(), created.ID, model.FormField{Name: "", Label: "", Type: "bogus"})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestUpdateField(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	target := created.Fields[0]
	label := "法定姓名"
	form, err := svc.UpdateField(context.Background(), created.ID, target.ID, &model.FieldPatch{Label: &label})
	require.NoError(t, err)

	// 字段 ID 保持稳定,其余字段不受影响
	assert.Equal(t, target.ID, form.Fields[0].ID)
	assert.Equal(t, "法定姓名", form.Fields[0].Label)
	assert.Equal(t, created.Fields[1], form.Fields[1])
}

func TestUpdateField_NotFoundLeavesDocUnchanged(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	label := "x"
	_, err = svc.UpdateField(context.Background(), created.ID, "missing-field", &model.FieldPatch{Label: &label})
	assert.ErrorIs(t, err, ErrFieldNotFound)

	form, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Fields, form.Fields)
	assert.Equal(t, created.UpdatedAt, form.UpdatedAt)
}

func TestRemoveField(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.Create(context.Background(), createRequest())
	require.NoError(t, err)

	form, err := svc.RemoveField(context.Background(), created.ID, created.Fields[0].ID)
	require.NoError(t, err)
	require.Len(t, form.Fields, 1)
	assert.Equal(t, created.Fields[1].ID, form.Fields[0].ID)

	_, err = svc.RemoveField(context.Background(), created.ID, "missing-field")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(t)

	req := createRequest()
	req.Name = "Invoice Template"
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	other := createRequest()
	other.Name = "请假单"
	other.CreatedBy = "owner-2"
	_, err = svc.Create(context.Background(), other)
	require.NoError(t, err)

	forms, err := svc.Search(context.Background(), "invoice", "")
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "Invoice Template", forms[0].Name)

	forms, err = svc.Search(context.Background(), "请假", "owner-1")
	require.NoError(t, err)
	assert.Empty(t, forms)
}

// conflictRepo 始终报 revision 冲突的仓储桩,验证重试耗尽路径
type conflictRepo struct {
	repository.FormRepository
	attempts int
}

func (r *conflictRepo) UpdateCAS(doc *model.FormDocument, expectedRevision int64) error {
	r.attempts++
	return repository.ErrRevisionConflict
}

func TestFieldUpdate_ConflictRetriesExhausted(t *testing.T) {
	db, err := database.OpenForTest()
	require.NoError(t, err)
	inner := repository.NewFormRepository(db)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	seed := NewFormService(inner, logger)
	created, err := seed.Create(context.Background(), createRequest())
	require.NoError(t, err)

	stub := &conflictRepo{FormRepository: inner}
	svc := NewFormService(stub, logger)

	label := "x"
	_, err = svc.UpdateField(context.Background(), created.ID, created.Fields[0].ID, &model.FieldPatch{Label: &label})

	var pErr *PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.ErrorIs(t, err, repository.ErrRevisionConflict)
	assert.Equal(t, casRetries, stub.attempts)
}
