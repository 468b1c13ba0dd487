package errors

import (
	"errors"
	"strings"
)

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// Kind 业务错误分类，Handler 层据此映射 HTTP 状态码
type Kind int

const (
	KindUnknown      Kind = iota
	KindValidation        // 请求参数缺失或格式错误
	KindNotFound          // 引用的实体不存在
	KindConflict          // 违反状态不变量（如重复的进行中训练）
	KindInvalidState      // 当前实体状态不允许该操作
	KindDependency        // 数据库或推送服务失败
)

// String 返回分类名称
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidState:
		return "invalid_state"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Error 带分类的业务错误
type Error struct {
	Kind    Kind
	Message string
	Fields  []string // 仅 KindValidation 使用
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(e.Fields, ","))
		b.WriteString("]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New 创建业务错误（通常作为包级哨兵变量）
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation 参数校验错误，fields 为不合法的字段名
func Validation(message string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Dependency 包装下游依赖（数据库、Redis、推送）错误
func Dependency(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Kind: KindDependency, Message: "依赖服务异常", Err: err}
}

// KindOf 提取错误分类；非业务错误视为 KindUnknown
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// FieldsOf 提取校验错误的字段列表
func FieldsOf(err error) []string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
