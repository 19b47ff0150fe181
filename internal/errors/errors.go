package errors

import (
	"errors"
	"fmt"
)

// AppError is the error type used throughout the application. Code carries
// the error taxonomy; Op and Target, when set, name the remote operation and
// the identifying value the invocation was addressing.
type AppError struct {
	Code            Code
	Message         string
	Op              string
	Target          string
	IsUserFacing    bool
	SuggestedAction string
	WrappedError    error
}

func (e *AppError) Error() string {
	var prefix string
	switch {
	case e.Op != "" && e.Target != "":
		prefix = fmt.Sprintf("[%s] %s (%s): %s", e.Code, e.Op, e.Target, e.Message)
	case e.Op != "":
		prefix = fmt.Sprintf("[%s] %s: %s", e.Code, e.Op, e.Message)
	default:
		prefix = fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	if e.WrappedError != nil {
		return fmt.Sprintf("%s: %v", prefix, e.WrappedError)
	}
	return prefix
}

func (e *AppError) Unwrap() error {
	return e.WrappedError
}

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NewUserFacing(code Code, message string, suggestion string) *AppError {
	return &AppError{
		Code:            code,
		Message:         message,
		IsUserFacing:    true,
		SuggestedAction: suggestion,
	}
}

func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Code: code, Message: message, WrappedError: err}
}

// WrapOp wraps a remote failure with the operation name and target identity
// so callers can tell which call against which object failed.
func WrapOp(err error, code Code, op, target, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:         code,
		Message:      message,
		Op:           op,
		Target:       target,
		WrappedError: err,
	}
}

func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func GetUserFacingMessage(err error) (string, string, bool) {
	var appErr *AppError
	for next := err; next != nil; next = errors.Unwrap(next) {
		if errors.As(next, &appErr) && appErr.IsUserFacing {
			return appErr.Message, appErr.SuggestedAction, true
		}
	}
	if errors.As(err, &appErr) {
		return appErr.Error(), "", false
	}
	return "An unexpected error occurred.", "Check logs for more details.", false
}
