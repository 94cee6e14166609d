package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/config"
	"github.com/Team-Techentia/techentia-pdf-formatter/internal/model"
)

// defaultRequestTimeout 请求超时,把挂起转换为可上报的错误
const defaultRequestTimeout = 8 * time.Second

// NetworkError 客户端到服务端的传输失败
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError 服务端返回的失败信封
type APIError struct {
	Status  int
	Message string
	Detail  json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// CreateFormInput 创建表单的输入
// 不携带 id/时间戳,它们由服务端分配
type CreateFormInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	PDFURL      string            `json:"pdfUrl"`
	Fields      []model.FormField `json:"fields"`
}

// ListResult 列表查询结果
type ListResult struct {
	Forms []*model.Form `json:"forms"`
	Total int64         `json:"total"`
}

// envelope 传输层统一响应信封
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// APIClient 表单 API 客户端
// 所有字段在构造后只读,可安全地被多个协程共享
type APIClient struct {
	baseURL string
	http    *http.Client
	ownerID string
}

// NewAPIClient 创建 API 客户端
// ownerID 非空时随每个请求以 X-Owner-ID 头发送
func NewAPIClient(cfg config.ClientConfig, ownerID string) *APIClient {
	timeout := defaultRequestTimeout
	if cfg.RequestTimeout > 0 {
		timeout = time.Duration(cfg.RequestTimeout) * time.Second
	}
	return &APIClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		ownerID: ownerID,
	}
}

// ListForms 分页列出表单
func (c *APIClient) ListForms(ctx context.Context, limit, offset int) (*ListResult, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var result ListResult
	if err := c.do(ctx, http.MethodGet, query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetForm 获取单个表单
func (c *APIClient) GetForm(ctx context.Context, id string) (*model.Form, error) {
	query := url.Values{}
	query.Set("id", id)

	var form model.Form
	if err := c.do(ctx, http.MethodGet, query, nil, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// CreateForm 创建表单
func (c *APIClient) CreateForm(ctx context.Context, input *CreateFormInput) (*model.Form, error) {
	var form model.Form
	if err := c.do(ctx, http.MethodPost, nil, input, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// UpdateForm 部分更新表单
func (c *APIClient) UpdateForm(ctx context.Context, id string, patch *model.FormPatch) (*model.Form, error) {
	query := url.Values{}
	query.Set("id", id)

	var form model.Form
	if err := c.do(ctx, http.MethodPut, query, patch, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// DeleteForm 删除表单
func (c *APIClient) DeleteForm(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("id", id)
	return c.do(ctx, http.MethodDelete, query, nil, nil)
}

// AddField 向表单追加字段
func (c *APIClient) AddField(ctx context.Context, formID string, field *model.FormField) (*model.Form, error) {
	query := url.Values{}
	query.Set("id", formID)
	query.Set("action", "addField")

	var form model.Form
	if err := c.do(ctx, http.MethodPut, query, field, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// UpdateField 更新表单中的指定字段
func (c *APIClient) UpdateField(ctx context.Context, formID, fieldID string, patch *model.FieldPatch) (*model.Form, error) {
	query := url.Values{}
	query.Set("id", formID)
	query.Set("action", "updateField")
	query.Set("fieldId", fieldID)

	var form model.Form
	if err := c.do(ctx, http.MethodPut, query, patch, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// RemoveField 移除表单中的指定字段
func (c *APIClient) RemoveField(ctx context.Context, formID, fieldID string) (*model.Form, error) {
	query := url.Values{}
	query.Set("id", formID)
	query.Set("action", "removeField")
	query.Set("fieldId", fieldID)

	var form model.Form
	if err := c.do(ctx, http.MethodDelete, query, nil, &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// SearchForms 按关键词搜索表单
func (c *APIClient) SearchForms(ctx context.Context, term, ownerID string) ([]*model.Form, error) {
	query := url.Values{}
	query.Set("q", term)
	if ownerID != "" {
		query.Set("ownerId", ownerID)
	}

	var forms []*model.Form
	if err := c.do(ctx, http.MethodGet, query, nil, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// do 发送请求并解包响应信封
// 传输失败报 NetworkError;success=false 报 APIError;
// data 解码到 out(out 为 nil 时丢弃)
func (c *APIClient) do(ctx context.Context, method string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + "/api/forms"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.ownerID != "" {
		req.Header.Set("X-Owner-ID", c.ownerID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &NetworkError{Err: fmt.Errorf("decode response: %w", err)}
	}

	if !env.Success {
		return &APIError{
			Status:  resp.StatusCode,
			Message: env.Message,
			Detail:  env.Error,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &NetworkError{Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}
