package client

import (
	"context"
	"errors"
	"testing"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAPI 可编程的 API 桩
type stubAPI struct {
	listResult *ListResult
	form       *model.Form
	err        error
}

func (s *stubAPI) ListForms(ctx context.Context, limit, offset int) (*ListResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.listResult, nil
}

func (s *stubAPI) GetForm(ctx context.Context, id string) (*model.Form, error) {
	return s.form, s.err
}

func (s *stubAPI) CreateForm(ctx context.Context, input *CreateFormInput) (*model.Form, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.form, nil
}

func (s *stubAPI) UpdateForm(ctx context.Context, id string, patch *model.FormPatch) (*model.Form, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.form, nil
}

func (s *stubAPI) DeleteForm(ctx context.Context, id string) error {
	return s.err
}

func (s *stubAPI) AddField(ctx context.Context, formID string, field *model.FormField) (*model.Form, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.form, nil
}

func (s *stubAPI) UpdateField(ctx context.Context, formID, fieldID string, patch *model.FieldPatch) (*model.Form, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.form, nil
}

func (s *stubAPI) RemoveField(ctx context.Context, formID, fieldID string) (*model.Form, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.form, nil
}

func (s *stubAPI) SearchForms(ctx context.Context, term, ownerID string) ([]*model.Form, error) {
	return nil, s.err
}

func sampleForm(id, name string) *model.Form {
	return &model.Form{
		ID:     id,
		Name:   name,
		PDFURL: "https://files.example.com/" + id + ".pdf",
		Fields: []model.FormField{
			{ID: "f1", Name: "fullName", Label: "姓名", Type: model.FieldTypeInput},
		},
	}
}

func loadedStore(t *testing.T, forms ...*model.Form) (*Store, *stubAPI) {
	t.Helper()
	api := &stubAPI{listResult: &ListResult{Forms: forms, Total: int64(len(forms))}}
	store := NewStore(api)
	require.NoError(t, store.LoadForms(context.Background(), 10, 0))
	return store, api
}

func TestLoadForms(t *testing.T) {
	store, _ := loadedStore(t, sampleForm("form-1", "A"), sampleForm("form-2", "B"))

	assert.Len(t, store.Forms(), 2)
	assert.Equal(t, int64(2), store.Total())
	assert.False(t, store.Loading())
	assert.Empty(t, store.LastError())
}

func TestLoadForms_FailureKeepsCache(t *testing.T) {
	store, api := loadedStore(t, sampleForm("form-1", "A"))

	api.err = errors.New("boom")
	err := store.LoadForms(context.Background(), 10, 0)
	require.Error(t, err)

	// 失败不动缓存,错误信息可供展示
	assert.Len(t, store.Forms(), 1)
	assert.Equal(t, "boom", store.LastError())
	assert.False(t, store.Loading())

	// 下一次成功的操作清除错误
	api.err = nil
	require.NoError(t, store.LoadForms(context.Background(), 10, 0))
	assert.Empty(t, store.LastError())
}

func TestLoadForms_CanceledResultDiscarded(t *testing.T) {
	store, _ := loadedStore(t, sampleForm("form-1", "A"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// 桩立即返回成功,但调用方已取消,结果不应写入缓存
	err := store.LoadForms(ctx, 10, 0)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, store.Forms(), 1)
	assert.Equal(t, "form-1", store.Forms()[0].ID)
}

func TestCreateForm(t *testing.T) {
	store, api := loadedStore(t, sampleForm("form-1", "A"))
	api.form = sampleForm("form-2", "B")

	form, err := store.CreateForm(context.Background(), &CreateFormInput{Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, "form-2", form.ID)

	// 新表单排在缓存头部(列表按创建时间倒序)
	forms := store.Forms()
	require.Len(t, forms, 2)
	assert.Equal(t, "form-2", forms[0].ID)
	assert.Equal(t, int64(2), store.Total())
}

func TestUpdateForm_SyncsSelection(t *testing.T) {
	store, api := loadedStore(t, sampleForm("form-1", "A"))
	require.True(t, store.SelectForm("form-1"))

	api.form = sampleForm("form-1", "A 改")
	form, err := store.UpdateForm(context.Background(), "form-1", &model.FormPatch{})
	require.NoError(t, err)

	// 列表项和选中项指向同一份新结果
	assert.Same(t, form, store.Forms()[0])
	assert.Same(t, form, store.SelectedForm())
	assert.Equal(t, "A 改", store.SelectedForm().Name)
}

func TestDeleteForm(t *testing.T) {
	store, _ := loadedStore(t, sampleForm("form-1", "A"), sampleForm("form-2", "B"))
	require.True(t, store.SelectForm("form-1"))
	store.SetValue("fullName", TextValue("张三"))

	require.NoError(t, store.DeleteForm(context.Background(), "form-1"))

	// 删除选中的表单时一并清空选中状态和草稿
	assert.Len(t, store.Forms(), 1)
	assert.Equal(t, int64(1), store.Total())
	assert.Nil(t, store.SelectedForm())
	assert.True(t, store.Value("fullName").IsEmpty())
}

func TestSelectForm_AlwaysResetsDrafts(t *testing.T) {
	store, _ := loadedStore(t, sampleForm("form-1", "A"))

	require.True(t, store.SelectForm("form-1"))
	store.SetValue("fullName", TextValue("张三"))
	store.ToggleFieldSelection("f1")

	// 重新选中同一个表单也会清空字段选择和草稿
	require.True(t, store.SelectForm("form-1"))
	assert.True(t, store.Value("fullName").IsEmpty())
	assert.Empty(t, store.SelectedFields())
}

func TestSelectForm_UnknownID(t *testing.T) {
	store, _ := loadedStore(t, sampleForm("form-1", "A"))

	assert.False(t, store.SelectForm("missing"))
	assert.Nil(t, store.SelectedForm())
}

func TestToggleFieldSelection(t *testing.T) {
	store := NewStore(&stubAPI{})

	store.ToggleFieldSelection("f1")
	assert.Equal(t, []string{"f1"}, store.SelectedFields())

	store.ToggleFieldSelection("f1")
	assert.Empty(t, store.SelectedFields())
}

func TestAddField_UpdatesCachedForm(t *testing.T) {
	store, api := loadedStore(t, sampleForm("form-1", "A"))

	updated := sampleForm("form-1", "A")
	updated.Fields = append(updated.Fields, model.FormField{
		ID: "f2", Name: "email", Label: "邮箱", Type: model.FieldTypeEmail,
	})
	api.form = updated

	form, err := store.AddField(context.Background(), "form-1", &model.FormField{
		Name: "email", Label: "邮箱", Type: model.FieldTypeEmail,
	})
	require.NoError(t, err)
	assert.Len(t, form.Fields, 2)
	assert.Same(t, form, store.Forms()[0])
}

func TestSetAndClearFormData(t *testing.T) {
	store := NewStore(&stubAPI{})

	store.SetValue("fullName", TextValue("张三"))
	store.SetValue("age", NumberValue(30))
	assert.Equal(t, "张三", store.Value("fullName").Text())
	assert.Equal(t, 30.0, store.Value("age").Number())

	store.ClearFormData()
	assert.True(t, store.Value("fullName").IsEmpty())
	assert.Equal(t, ValueEmpty, store.Value("age").Kind())
}
