package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

// ErrorCode says what kind of failure an Error is.
type ErrorCode string

const (
	ErrCodeTimeout    ErrorCode = "timeout"
	ErrCodeConnection ErrorCode = "connection"
	ErrCodeAuth       ErrorCode = "auth"
	ErrCodeNotFound   ErrorCode = "not_found"
	ErrCodeRateLimit  ErrorCode = "rate_limit"
	ErrCodeValidation ErrorCode = "validation"
	ErrCodeServer     ErrorCode = "server"
)

// Error is a failed call. StatusCode and Body are zero when no response
// arrived.
type Error struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	// Retryable marks failures the upstream may recover from: timeouts,
	// broken connections, 429 and 5xx.
	Retryable bool
	Body      []byte
	Err       error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// BodySnippet is the start of the response body, at most n runes.
func (e *Error) BodySnippet(n int) string { return Truncate(string(e.Body), n) }

// Truncate cuts s to n runes and marks the cut with "...". n <= 0 keeps s.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Retryable: true, Err: err}
}

func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Retryable: true, Err: err}
}

// NewValidationError reports a request that could not be built.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

var statusCodes = map[int]ErrorCode{
	http.StatusUnauthorized:    ErrCodeAuth,
	http.StatusForbidden:       ErrCodeAuth,
	http.StatusNotFound:        ErrCodeNotFound,
	http.StatusTooManyRequests: ErrCodeRateLimit,
}

// ClassifyStatusCode is nil for 2xx. Other statuses outside the 4xx range
// count as server errors; only 429 and 5xx are retryable.
func ClassifyStatusCode(status int, body []byte) *Error {
	if status >= 200 && status < 300 {
		return nil
	}
	e := &Error{StatusCode: status, Message: fmt.Sprintf("HTTP %d", status), Body: body}
	code, known := statusCodes[status]
	switch {
	case known:
		e.Code = code
	case status >= 400 && status < 500:
		e.Code = ErrCodeValidation
	default:
		e.Code = ErrCodeServer
	}
	e.Retryable = status == http.StatusTooManyRequests || status >= 500
	return e
}

// AsError finds an *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsRetryable is false for errors that did not come from this package.
func IsRetryable(err error) bool {
	e, ok := AsError(err)
	return ok && e.Retryable
}
