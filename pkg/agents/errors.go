package agents

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrServiceRequest indicates the automation service answered with a
// non-success status.
var ErrServiceRequest = errors.New("automation service request failed")

// RequestError carries the failing path, the HTTP status, and the service's
// detail message when it sent one.
type RequestError struct {
	Path       string
	StatusCode int
	Detail     string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Path, e.StatusCode, e.Detail)
	}

	return fmt.Sprintf("%s returned status %d", e.Path, e.StatusCode)
}

func (e *RequestError) Unwrap() error {
	return ErrServiceRequest
}

func newRequestError(path string, statusCode int, raw []byte) *RequestError {
	// The service reports errors as {"detail": "..."}; fall back to the raw
	// body when it does not.
	var body struct {
		Detail string `json:"detail"`
	}

	detail := ""
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
		detail = body.Detail
	}

	return &RequestError{
		Path:       path,
		StatusCode: statusCode,
		Detail:     detail,
	}
}
