package llm

import (
	"errors"
	"fmt"
)

// Error codes reported for failed completions.
const (
	CodeConfigMissing = "config_missing"
	CodeRequestFailed = "request_failed"
	CodeEmptyResponse = "empty_response"
)

// Error is a failed completion with a machine-readable code.
type Error struct {
	Code   string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm %s: %v", e.Code, e.Err)
	}
	return "llm " + e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPErrorCode is the code for a non-2xx upstream status.
func HTTPErrorCode(status int) string {
	return fmt.Sprintf("http_%d", status)
}

// ErrorCode extracts the code from err, or request_failed for errors that
// did not come from this package.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeRequestFailed
}
