package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/reel/internal/shared"
)

// APIError is a non-2xx response from the backend. It unwraps to the shared sentinel
// matching its status so callers can use [errors.Is].
type APIError struct {
	Status int
	Detail string
	kind   error
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v (status %d)", e.kind, e.Status)
	}
	return fmt.Sprintf("%v (status %d): %s", e.kind, e.Status, e.Detail)
}

func (e *APIError) Unwrap() error { return e.kind }

// NewAPIError builds an APIError from a status code and a {"detail": ...} body.
//
// Validation errors whose detail is not a string keep the raw JSON as detail.
func NewAPIError(status int, body []byte) *APIError {
	return &APIError{Status: status, Detail: parseDetail(body), kind: statusError(status)}
}

func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		return detail
	}
	return string(payload.Detail)
}

func statusError(status int) error {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return shared.ErrNotAuthenticated
	case status == http.StatusNotFound:
		return shared.ErrNotFound
	case status == http.StatusConflict:
		return shared.ErrAlreadyExists
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return shared.ErrInvalidInput
	case status >= 500:
		return shared.ErrServiceUnavailable
	default:
		return shared.ErrAPIRequest
	}
}

// Detail returns the backend's message for err, or err's text when it is not an APIError.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}

// IsUnauthorized reports whether err is a 401/403 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, shared.ErrNotAuthenticated)
}
