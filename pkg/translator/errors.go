package translator

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nerdneilsfield/go-translator-services/pkg/transport"
)

// ErrorType 统一错误分类，封闭集合
type ErrorType string

const (
	ErrNetwork         ErrorType = "NETWORK_ERROR"
	ErrNetworkTimeout  ErrorType = "NETWORK_TIMEOUT"
	ErrAPIServer       ErrorType = "API_SERVER_ERROR"
	ErrUnsupportedLang ErrorType = "UNSUPPORTED_LANG"
	// ErrUsageLimit 保持上游的拼写 USEAGE_LIMIT
	ErrUsageLimit      ErrorType = "USEAGE_LIMIT"
	ErrAuth            ErrorType = "AUTH_ERROR"
	ErrUnknown         ErrorType = "UNKNOWN"
	ErrTooManyRequests ErrorType = "TOO_MANY_REQUESTS"
)

// ErrorTypes 全部错误分类
var ErrorTypes = []ErrorType{
	ErrNetwork,
	ErrNetworkTimeout,
	ErrAPIServer,
	ErrUnsupportedLang,
	ErrUsageLimit,
	ErrAuth,
	ErrUnknown,
	ErrTooManyRequests,
}

// Error 翻译错误，是唯一会越过提供商边界的错误类型
type Error struct {
	Type ErrorType
	// Cause 提供商原始错误码，仅用于诊断
	Cause string
	Err   error
}

// Error 实现error接口
func (e *Error) Error() string {
	if e.Cause != "" {
		return fmt.Sprintf("%s (%s)", e.Type, e.Cause)
	}
	return string(e.Type)
}

// Unwrap 返回原因错误
func (e *Error) Unwrap() error {
	return e.Err
}

// Is 同类型的翻译错误视为相等，便于 errors.Is(err, &Error{Type: ErrAuth})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Type == e.Type && (t.Cause == "" || t.Cause == e.Cause)
}

// NewError 创建翻译错误
func NewError(typ ErrorType, cause string) *Error {
	return &Error{Type: typ, Cause: cause}
}

// WrapError 创建带底层错误的翻译错误
func WrapError(typ ErrorType, cause string, err error) *Error {
	return &Error{Type: typ, Cause: cause, Err: err}
}

// TypeOf 返回错误分类，非翻译错误视为 UNKNOWN
func TypeOf(err error) ErrorType {
	var te *Error
	if errors.As(err, &te) {
		return te.Type
	}
	return ErrUnknown
}

// Normalize 确保返回值是 *Error
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return WrapError(ErrUnknown, "", err)
}

// CodeTable 提供商错误码到统一分类的固定映射，未知代码一律为 UNKNOWN
type CodeTable[K comparable] map[K]ErrorType

// Lookup 查表
func (t CodeTable[K]) Lookup(code K) ErrorType {
	if typ, ok := t[code]; ok {
		return typ
	}
	return ErrUnknown
}

// Error 以原始错误码构造翻译错误
func (t CodeTable[K]) Error(code K) *Error {
	return NewError(t.Lookup(code), fmt.Sprint(code))
}

// StatusTable HTTP 状态码映射
type StatusTable = CodeTable[int]

// DefaultStatusTable 通用的 HTTP 状态码映射，5xx 另由 FromTransport 处理
var DefaultStatusTable = StatusTable{
	http.StatusUnauthorized:    ErrAuth,
	http.StatusTooManyRequests: ErrTooManyRequests,
}

// FromTransport 将传输层失败转为翻译错误
//
// 有状态码时依次查 statuses 与 DefaultStatusTable，未命中时 5xx 为 USEAGE_LIMIT，其余为 UNKNOWN。
// 没有状态码的失败一律为 UNKNOWN，cause 标明 network 或 timeout。
func FromTransport(err error, statuses StatusTable) *Error {
	if err == nil {
		return nil
	}

	if se, ok := transport.AsStatus(err); ok {
		cause := fmt.Sprintf("HTTP %d", se.Status)
		if typ, ok := statuses[se.Status]; ok {
			return WrapError(typ, cause, err)
		}
		if typ, ok := DefaultStatusTable[se.Status]; ok {
			return WrapError(typ, cause, err)
		}
		if se.Status >= 500 {
			return WrapError(ErrUsageLimit, cause, err)
		}
		return WrapError(ErrUnknown, cause, err)
	}

	if ne, ok := transport.AsNetwork(err); ok {
		if ne.Timeout() {
			return WrapError(ErrUnknown, "timeout", err)
		}
		return WrapError(ErrUnknown, "network", err)
	}

	return Normalize(err)
}
