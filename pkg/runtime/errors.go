package runtime

import "fmt"

// ErrorCode classifies evaluation failures. Errors are plain values carried
// up the return path; nothing in the core panics or recovers.
type ErrorCode string

const (
	ErrUndefinedVariable       ErrorCode = "UndefinedVariable"
	ErrTypeMismatch            ErrorCode = "TypeMismatch"
	ErrDivisionByZero          ErrorCode = "DivisionByZero"
	ErrModulusByZero           ErrorCode = "ModulusByZero"
	ErrIndexOutOfBounds        ErrorCode = "IndexOutOfBounds"
	ErrKeyNotFound             ErrorCode = "KeyNotFound"
	ErrArityMismatch           ErrorCode = "ArityMismatch"
	ErrInvalidAssignmentTarget ErrorCode = "InvalidAssignmentTarget"
	ErrUnknownFunction         ErrorCode = "UnknownFunction"
	ErrUnimplementedNodeKind   ErrorCode = "UnimplementedNodeKind"
	ErrInvalidReference        ErrorCode = "InvalidReference"
)

// Error is an evaluation failure: a code plus a human-readable message.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf builds an Error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the error code, reporting false for foreign errors.
func CodeOf(err error) (ErrorCode, bool) {
	if e, ok := err.(*Error); ok {
		return e.Code, true
	}
	return "", false
}
