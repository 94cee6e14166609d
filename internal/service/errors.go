package service

import (
	"errors"
	"fmt"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/schema"
)

// 服务层错误分类
// 仓储/适配层的底层错误在此边界统一转换,不会裸穿到控制器之外
var (
	// ErrFormNotFound 表单不存在(或存储内容损坏无法还原)
	ErrFormNotFound = errors.New("form not found")
	// ErrFieldNotFound 表单中不存在指定 ID 的字段
	ErrFieldNotFound = errors.New("field not found")
)

// ValidationError 模式校验失败,携带逐字段的违规明细
type ValidationError struct {
	Result *schema.Result
}

func (e *ValidationError) Error() string {
	return e.Result.Error()
}

// Violations 返回全部违规明细
func (e *ValidationError) Violations() []schema.Violation {
	return e.Result.Violations
}

// NewValidationError 从校验结果构造校验错误
func NewValidationError(res *schema.Result) *ValidationError {
	return &ValidationError{Result: res}
}

// PersistenceError 底层存储失败
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}
