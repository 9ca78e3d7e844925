package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("request validation failed")

// FieldError describes one failed check.
type FieldError struct {
	// In is the group the value came from: params, query, header or body.
	In      string `json:"in,omitempty"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// ValidationError reports a request rejected before its handler ran.
type ValidationError struct {
	StatusCode int
	Message    string
	Errors     []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %d error(s), first: %s", e.Message, len(e.Errors), e.Errors[0].Message)
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// BindError reports a validated value that could not be decoded into its
// generated shape.
type BindError struct {
	Group string
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Group, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// ErrorHandler is called when validation, binding or a handler fails.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// DefaultErrorHandler writes validation and bind failures as 400 responses
// and everything else as a 500 response.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := map[string]any{
		"error":   "internal_error",
		"message": http.StatusText(http.StatusInternalServerError),
	}

	var validationErr *ValidationError
	var bindErr *BindError
	switch {
	case errors.As(err, &validationErr):
		status = validationErr.StatusCode
		body["error"] = "validation_error"
		body["message"] = validationErr.Message
		body["details"] = validationErr.Errors
	case errors.As(err, &bindErr):
		status = http.StatusBadRequest
		body["error"] = "bind_error"
		body["message"] = bindErr.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(body); encodeErr != nil {
		logrus.WithError(encodeErr).Debug("writing error response")
	}
}
