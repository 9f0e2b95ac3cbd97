package content

import (
	"errors"
	"fmt"
)

// Kind 区分客户端可见的错误类别。
type Kind int

const (
	// KindNotFound 表示对象在所有层级都不存在，或请求参数无效。
	KindNotFound Kind = iota + 1
	// KindInternal 表示对象存在但内容为空或无法解析。
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error 携带类别与面向客户端的消息，Err 为可选的底层原因。
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound 构造 404 类错误。
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Corrupted 构造 500 类错误，cause 可为空。
func Corrupted(key Key, cause error) error {
	return &Error{
		Kind:    KindInternal,
		Message: fmt.Sprintf("requested object corrupted (%s)", key),
		Err:     cause,
	}
}

// ObjectNotFound 返回标准的“对象不存在”错误。
func ObjectNotFound(key Key) error {
	return NotFound("requested object not found (%s)", key)
}

// IsNotFound reports whether err carries KindNotFound.
func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

// IsInternal reports whether err carries KindInternal.
func IsInternal(err error) bool {
	return kindOf(err) == KindInternal
}

// KindOf 返回错误类别，非 *Error 返回 0。
func KindOf(err error) Kind {
	return kindOf(err)
}

func kindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return 0
}
