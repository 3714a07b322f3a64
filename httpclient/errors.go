package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failed request.
type ErrorCode string

const (
	ErrCodeTimeout    ErrorCode = "timeout"
	ErrCodeConnection ErrorCode = "connection"
	ErrCodeAuth       ErrorCode = "auth"
	ErrCodeNotFound   ErrorCode = "not_found"
	ErrCodeRateLimit  ErrorCode = "rate_limit"
	ErrCodeValidation ErrorCode = "validation"
	ErrCodeServer     ErrorCode = "server"
	ErrCodeDecode     ErrorCode = "decode"
)

func (c ErrorCode) String() string { return string(c) }

// Error is a classified request failure. StatusCode is 0 when no response
// was received.
type Error struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	// Retryable marks transient failures: timeouts, connection errors,
	// 429 and 5xx.
	Retryable bool
	Body      []byte
	Err       error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// NewDecodeError reports a body that does not have the expected shape.
func NewDecodeError(statusCode int, body []byte, err error) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeDecode,
		Message:    fmt.Sprintf("decode response: %v", err),
		Body:       body,
		Err:        err,
	}
}

// ClassifyStatusCode returns nil for 2xx and a classified *Error otherwise.
func ClassifyStatusCode(status int, body []byte) *Error {
	if status >= 200 && status < 300 {
		return nil
	}
	code, retryable := ErrCodeServer, status >= 500
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		code = ErrCodeAuth
	case status == http.StatusNotFound:
		code = ErrCodeNotFound
	case status == http.StatusTooManyRequests:
		code, retryable = ErrCodeRateLimit, true
	case status >= 400 && status < 500:
		code = ErrCodeValidation
	}
	return &Error{
		StatusCode: status,
		Code:       code,
		Message:    fmt.Sprintf("HTTP %d", status),
		Retryable:  retryable,
		Body:       body,
	}
}

// CodeOf returns the classification of err, if err wraps an *Error.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return "", false
}

func IsTimeout(err error) bool     { return hasCode(err, ErrCodeTimeout) }
func IsConnection(err error) bool  { return hasCode(err, ErrCodeConnection) }
func IsNotFound(err error) bool    { return hasCode(err, ErrCodeNotFound) }
func IsServerError(err error) bool { return hasCode(err, ErrCodeServer) }
func IsDecode(err error) bool      { return hasCode(err, ErrCodeDecode) }

// IsRetryable reports whether err is a transient failure.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}

func hasCode(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
