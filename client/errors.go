package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/vastra/pkg/httpclient"
)

// Sentinel errors for the common failure modes. Use errors.Is to test
// them; the wrapped *APIError carries the full server response.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	// FieldErrors is populated on validation failures, keyed by field.
	FieldErrors map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vastra: %s (status %d)", e.Message, e.StatusCode)
}

// Unwrap maps the status onto a sentinel so callers can errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		if len(e.FieldErrors) > 0 {
			return ErrValidation
		}
	}
	return nil
}

func apiErrorFrom(resp *httpclient.Response) *APIError {
	var body struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(resp.Raw, &body); err == nil && body.Message != "" {
		apiErr.Message = body.Message
		apiErr.FieldErrors = body.Errors
	} else {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
