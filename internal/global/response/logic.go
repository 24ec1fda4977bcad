package response

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// ErrorContextKey is the gin.Context key holding the failure that ended a request.
const ErrorContextKey = "error"

// Error is a client-facing failure. Code is the HTTP status it is written with.
type Error struct {
	Code    int32  `json:"-"`
	Message string `json:"error"`
	Origin  string `json:"origin,omitempty"`
	cause   error
	stack   pkgerrors.StackTrace
}

func newError(code int32, msg string) *Error {
	return &Error{
		Code:    code,
		Message: msg,
	}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("code:%d, msg:%s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("code:%d, msg:%s", e.Code, e.Message)
}

// GetCode implements sentry.CodedError.
func (e *Error) GetCode() int32 {
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.cause
}

// StackTrace exposes the cause's stack to Sentry.
func (e *Error) StackTrace() pkgerrors.StackTrace {
	if e.stack != nil {
		return e.stack
	}
	if e.cause != nil {
		type stackTracer interface {
			StackTrace() pkgerrors.StackTrace
		}
		if st, ok := e.cause.(stackTracer); ok {
			return st.StackTrace()
		}
	}
	return nil
}

// Is matches on the status code, so a reworded ErrInvalidRequest is still ErrInvalidRequest.
func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithOrigin attaches the underlying error. Its text only reaches the client in debug mode.
func (e *Error) WithOrigin(err error) *Error {
	if err == nil {
		return e
	}

	wrappedErr := ensureStack(err)

	newErr := &Error{
		Code:    e.Code,
		Message: e.Message,
		Origin:  fmt.Sprintf("%+v", wrappedErr),
		cause:   wrappedErr,
	}

	type stackTracer interface {
		StackTrace() pkgerrors.StackTrace
	}
	if st, ok := wrappedErr.(stackTracer); ok {
		newErr.stack = st.StackTrace()
	}

	return newErr
}

// WithTips replaces the message with a more specific one, visible in every mode.
func (e *Error) WithTips(details ...string) *Error {
	msg := e.Message
	if len(details) > 0 {
		msg = strings.Join(details, " ")
	}
	return &Error{
		Code:    e.Code,
		Message: msg,
		Origin:  e.Origin,
		cause:   e.cause,
		stack:   e.stack,
	}
}

func ensureStack(err error) error {
	if err == nil {
		return nil
	}
	type stackTracer interface {
		StackTrace() pkgerrors.StackTrace
	}
	if _, ok := err.(stackTracer); ok {
		return err
	}
	return pkgerrors.WithStack(err)
}
