package tree

import (
	"errors"
	"fmt"
)

// 错误类别哨兵。调用方通过 errors.Is 判定类别，HTTP 层据此映射状态码。
var (
	ErrInvalidPath   = errors.New("path escapes entity root")
	ErrNotFound      = errors.New("entity or file not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrRead          = errors.New("read failed")
	ErrWrite         = errors.New("write failed")
	ErrExternalTool  = errors.New("external tool failed")
)

// Error 在类别哨兵之上附加实体与路径上下文，让调用方可以据此纠正请求。
type Error struct {
	Kind error
	Root Root
	Name string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Name != "" {
		msg = fmt.Sprintf("%s: %s/%s", msg, e.Root, e.Name)
	}
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is 使 errors.Is(err, tree.ErrNotFound) 这类判定命中类别哨兵。
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError 统一构造带上下文的类别错误。
func newError(kind error, root Root, name, path string, err error) *Error {
	return &Error{Kind: kind, Root: root, Name: name, Path: path, Err: err}
}

// NewInvalidPath 表示请求路径在任何文件系统访问前就被判定为越界/非法。
func NewInvalidPath(root Root, name, path string) *Error {
	return newError(ErrInvalidPath, root, name, path, nil)
}

// NewNotFound 表示实体目录或其中的某个文件在访问时不存在。
func NewNotFound(root Root, name, path string) *Error {
	return newError(ErrNotFound, root, name, path, nil)
}

// NewAlreadyExists 表示创建请求的目标实体已经存在。
func NewAlreadyExists(root Root, name string) *Error {
	return newError(ErrAlreadyExists, root, name, "", nil)
}

// NewReadError 包装存在性之外的读失败（权限、I/O 故障），不做重试。
func NewReadError(root Root, name, path string, err error) *Error {
	return newError(ErrRead, root, name, path, err)
}

// NewWriteError 包装底层写失败，调用方保证缓存条目原样保留。
func NewWriteError(root Root, name, path string, err error) *Error {
	return newError(ErrWrite, root, name, path, err)
}

// NewExternalToolError 包装外部工具链调用的失败，捕获输出由调用方透传。
func NewExternalToolError(detail string, err error) *Error {
	return newError(ErrExternalTool, "", "", detail, err)
}
