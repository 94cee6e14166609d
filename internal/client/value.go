package client

import "strings"

// ValueKind 草稿值的变体标签
type ValueKind int

// 草稿值变体
// 按字段类型划分,校验器和 UI 消费方都能做穷尽分支
const (
	ValueEmpty ValueKind = iota
	ValueText
	ValueNumber
	ValueMultiSelect
	ValueFile
)

// FileRef 已选择但未上传的文件引用
type FileRef struct {
	Name        string
	Size        int64
	ContentType string
}

// FieldValue 表单草稿值
// 带标签的变体,替代运行时类型探测
type FieldValue struct {
	kind       ValueKind
	text       string
	number     float64
	selections []string
	file       *FileRef
}

// EmptyValue 未填写
func EmptyValue() FieldValue {
	return FieldValue{kind: ValueEmpty}
}

// TextValue 文本值
func TextValue(s string) FieldValue {
	return FieldValue{kind: ValueText, text: s}
}

// NumberValue 数值
func NumberValue(n float64) FieldValue {
	return FieldValue{kind: ValueNumber, number: n}
}

// MultiSelectValue 多选值(checkbox 组/多选 select)
func MultiSelectValue(selections []string) FieldValue {
	copied := make([]string, len(selections))
	copy(copied, selections)
	return FieldValue{kind: ValueMultiSelect, selections: copied}
}

// FileValue 文件引用值
func FileValue(ref *FileRef) FieldValue {
	return FieldValue{kind: ValueFile, file: ref}
}

// Kind 返回变体标签
func (v FieldValue) Kind() ValueKind {
	return v.kind
}

// Text 返回文本内容(仅 ValueText 有意义)
func (v FieldValue) Text() string {
	return v.text
}

// Number 返回数值内容(仅 ValueNumber 有意义)
func (v FieldValue) Number() float64 {
	return v.number
}

// Selections 返回选中项(仅 ValueMultiSelect 有意义)
func (v FieldValue) Selections() []string {
	return v.selections
}

// File 返回文件引用(仅 ValueFile 有意义)
func (v FieldValue) File() *FileRef {
	return v.file
}

// IsEmpty 类型感知的"未填写"判断
// 文本按去除空白后是否为空;多选按选中项数量;文件按引用是否存在
func (v FieldValue) IsEmpty() bool {
	switch v.kind {
	case ValueText:
		return strings.TrimSpace(v.text) == ""
	case ValueNumber:
		return false
	case ValueMultiSelect:
		return len(v.selections) == 0
	case ValueFile:
		return v.file == nil
	default:
		return true
	}
}
