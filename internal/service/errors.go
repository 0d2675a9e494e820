package service

import "fmt"

// ModelError reports a failed completion. The user message has already been
// stored in SessionID, so the client may resubmit to that session.
type ModelError struct {
	Code      string
	SessionID string
	Err       error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model error %s: %v", e.Code, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}
