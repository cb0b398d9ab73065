package backend

import (
	"errors"
	"fmt"

	"github.com/kbukum/quorumbot/httpclient"
)

// Backend identifies one answer backend.
type Backend struct {
	// ID is the model identifier sent upstream, e.g. "openai/gpt-4o".
	ID string `yaml:"id" mapstructure:"id" validate:"required"`
	// Name is the display name, e.g. "ChatGPT".
	Name string `yaml:"name" mapstructure:"name" validate:"required"`
}

// Request is one call to one backend. It is built per dispatch.
type Request struct {
	Backend Backend
	System  string
	Prompt  string
}

// Result is produced exactly once per dispatched backend.
type Result struct {
	Name string
	Text string
	Err  error
}

// OK reports whether the backend answered.
func (r Result) OK() bool { return r.Err == nil }

// Error is the typed failure of one backend call. Status is 0 when the
// request never got an HTTP response.
type Error struct {
	Backend string
	Status  int
	Detail  string
	Cause   error
}

const detailLimit = 300

func (e *Error) Error() string {
	return e.Backend + ": " + e.Reason()
}

// Reason is the short failure text shown in chat.
func (e *Error) Reason() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("API returned status %d", e.Status)
	case e.Cause != nil:
		return e.Cause.Error()
	default:
		return "unknown error"
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// newError classifies err. HTTP failures keep the status and a truncated
// body; anything else keeps only the cause.
func newError(name string, err error) *Error {
	be := &Error{Backend: name, Cause: err}
	if httpErr, ok := httpclient.AsError(err); ok {
		be.Status = httpErr.StatusCode
		be.Detail = httpErr.BodySnippet(detailLimit)
	}
	return be
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
