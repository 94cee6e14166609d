package client

import (
	"context"
	"sync"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/model"
)

// API 存储层依赖的表单 API 子集
// 由 APIClient 实现;测试可注入桩实现
type API interface {
	ListForms(ctx context.Context, limit, offset int) (*ListResult, error)
	GetForm(ctx context.Context, id string) (*model.Form, error)
	CreateForm(ctx context.Context, input *CreateFormInput) (*model.Form, error)
	UpdateForm(ctx context.Context, id string, patch *model.FormPatch) (*model.Form, error)
	DeleteForm(ctx context.Context, id string) error
	AddField(ctx context.Context, formID string, field *model.FormField) (*model.Form, error)
	UpdateField(ctx context.Context, formID, fieldID string, patch *model.FieldPatch) (*model.Form, error)
	RemoveField(ctx context.Context, formID, fieldID string) (*model.Form, error)
	SearchForms(ctx context.Context, term, ownerID string) ([]*model.Form, error)
}

// Store 客户端数据存储
// 表单列表/选中表单/草稿值的内存缓存,与远端通过 API 同步。
// 显式构造注入依赖,每个客户端会话一个实例,没有包级全局状态。
//
// 缓存只在远端调用成功返回之后改写;失败时记录可读错误并把错误
// 返回给调用方,调用方可以额外做局部处理。调用方传入的 ctx 取消后
// 迟到的结果会被丢弃,不会写入缓存。
type Store struct {
	mu  sync.RWMutex
	api API

	forms          []*model.Form
	selectedForm   *model.Form
	selectedFields map[string]struct{}
	formData       map[string]FieldValue
	total          int64
	loading        bool
	lastError      string
}

// NewStore 创建客户端数据存储
func NewStore(api API) *Store {
	return &Store{
		api:            api,
		selectedFields: make(map[string]struct{}),
		formData:       make(map[string]FieldValue),
	}
}

// Forms 返回缓存的表单列表快照
func (s *Store) Forms() []*model.Form {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make([]*model.Form, len(s.forms))
	copy(snapshot, s.forms)
	return snapshot
}

// Total 返回最近一次列表拉取的总数
func (s *Store) Total() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// SelectedForm 返回当前选中的表单
func (s *Store) SelectedForm() *model.Form {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedForm
}

// SelectedFields 返回选中字段 ID 集合的快照
func (s *Store) SelectedFields() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.selectedFields))
	for id := range s.selectedFields {
		ids = append(ids, id)
	}
	return ids
}

// Value 返回字段名对应的草稿值
func (s *Store) Value(fieldName string) FieldValue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.formData[fieldName]; ok {
		return v
	}
	return EmptyValue()
}

// Loading 返回是否有操作进行中
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError 返回最近一次失败的可读错误信息
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// LoadForms 拉取表单列表并替换缓存
func (s *Store) LoadForms(ctx context.Context, limit, offset int) error {
	s.begin()
	result, err := s.api.ListForms(ctx, limit, offset)
	if err != nil {
		return s.fail(err)
	}
	if ctx.Err() != nil {
		return s.discard(ctx.Err())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms = result.Forms
	s.total = result.Total
	// 选中的表单被新列表替换时同步引用,避免持有过期副本
	if s.selectedForm != nil {
		if idx := s.indexOfLocked(s.selectedForm.ID); idx >= 0 {
			s.selectedForm = s.forms[idx]
		}
	}
	s.loading = false
	return nil
}

// CreateForm 创建表单并追加到缓存头部(列表按创建时间倒序)
func (s *Store) CreateForm(ctx context.Context, input *CreateFormInput) (*model.Form, error) {
	s.begin()
	form, err := s.api.CreateForm(ctx, input)
	if err != nil {
		return nil, s.fail(err)
	}
	if ctx.Err() != nil {
		return nil, s.discard(ctx.Err())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms = append([]*model.Form{form}, s.forms...)
	s.total++
	s.loading = false
	return form, nil
}

// UpdateForm 更新表单并回写缓存
func (s *Store) UpdateForm(ctx context.Context, id string, patch *model.FormPatch) (*model.Form, error) {
	return s.applyFormResult(ctx, func() (*model.Form, error) {
		return s.api.UpdateForm(ctx, id, patch)
	})
}

// DeleteForm 删除表单并从缓存移除
// 删除的是当前选中的表单时,一并清空选中状态和草稿
func (s *Store) DeleteForm(ctx context.Context, id string) error {
	s.begin()
	if err := s.api.DeleteForm(ctx, id); err != nil {
		return s.fail(err)
	}
	if ctx.Err() != nil {
		return s.discard(ctx.Err())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOfLocked(id); idx >= 0 {
		s.forms = append(s.forms[:idx], s.forms[idx+1:]...)
		if s.total > 0 {
			s.total--
		}
	}
	if s.selectedForm != nil && s.selectedForm.ID == id {
		s.selectedForm = nil
		s.selectedFields = make(map[string]struct{})
		s.formData = make(map[string]FieldValue)
	}
	s.loading = false
	return nil
}

// AddField 向表单追加字段
func (s *Store) AddField(ctx context.Context, formID string, field *model.FormField) (*model.Form, error) {
	return s.applyFormResult(ctx, func() (*model.Form, error) {
		return s.api.AddField(ctx, formID, field)
	})
}

// UpdateField 更新表单中的字段
func (s *Store) UpdateField(ctx context.Context, formID, fieldID string, patch *model.FieldPatch) (*model.Form, error) {
	return s.applyFormResult(ctx, func() (*model.Form, error) {
		return s.api.UpdateField(ctx, formID, fieldID, patch)
	})
}

// RemoveField 移除表单中的字段
func (s *Store) RemoveField(ctx context.Context, formID, fieldID string) (*model.Form, error) {
	return s.applyFormResult(ctx, func() (*model.Form, error) {
		return s.api.RemoveField(ctx, formID, fieldID)
	})
}

// SelectForm 选中表单
// 无论是否与之前同一个表单,都会清空字段选择和草稿值
func (s *Store) SelectForm(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedFields = make(map[string]struct{})
	s.formData = make(map[string]FieldValue)

	idx := s.indexOfLocked(id)
	if idx < 0 {
		s.selectedForm = nil
		return false
	}
	s.selectedForm = s.forms[idx]
	return true
}

// ClearSelection 清空选中状态
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedForm = nil
	s.selectedFields = make(map[string]struct{})
	s.formData = make(map[string]FieldValue)
}

// ToggleFieldSelection 切换字段的选中状态(用于批量操作)
func (s *Store) ToggleFieldSelection(fieldID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selectedFields[fieldID]; ok {
		delete(s.selectedFields, fieldID)
	} else {
		s.selectedFields[fieldID] = struct{}{}
	}
}

// SetValue 写入字段草稿值
func (s *Store) SetValue(fieldName string, value FieldValue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formData[fieldName] = value
}

// ClearFormData 丢弃全部草稿值
func (s *Store) ClearFormData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formData = make(map[string]FieldValue)
}

// applyFormResult 执行一次返回整个表单的远端操作并回写缓存
// forms 列表项和 selectedForm 指向同一份新结果,不留过期副本
func (s *Store) applyFormResult(ctx context.Context, call func() (*model.Form, error)) (*model.Form, error) {
	s.begin()
	form, err := call()
	if err != nil {
		return nil, s.fail(err)
	}
	if ctx.Err() != nil {
		return nil, s.discard(ctx.Err())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOfLocked(form.ID); idx >= 0 {
		s.forms[idx] = form
	}
	if s.selectedForm != nil && s.selectedForm.ID == form.ID {
		s.selectedForm = form
	}
	s.loading = false
	return form, nil
}

// begin 进入加载状态并清除上一次的错误
func (s *Store) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = true
	s.lastError = ""
}

// fail 记录错误并原样返回,缓存不做任何改动
func (s *Store) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.lastError = err.Error()
	return err
}

// discard 调用方已取消,丢弃迟到的结果
func (s *Store) discard(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	return err
}

func (s *Store) indexOfLocked(id string) int {
	for i := range s.forms {
		if s.forms[i].ID == id {
			return i
		}
	}
	return -1
}
