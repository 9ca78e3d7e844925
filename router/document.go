package router

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/pb33f/libopenapi"
	validator "github.com/pb33f/libopenapi-validator"
	validatorErrors "github.com/pb33f/libopenapi-validator/errors"
)

// DocumentValidator validates requests against a whole OpenAPI document.
// It complements the per-route rules with the checks only the document
// knows about, such as content types and undeclared paths.
type DocumentValidator struct {
	validator    validator.Validator
	errorHandler ErrorHandler
}

type DocumentOption func(*DocumentValidator)

// WithDocumentErrorHandler replaces DefaultErrorHandler.
func WithDocumentErrorHandler(h ErrorHandler) DocumentOption {
	return func(v *DocumentValidator) {
		if h != nil {
			v.errorHandler = h
		}
	}
}

// NewDocumentValidator creates a validator from OpenAPI document bytes.
func NewDocumentValidator(spec []byte, opts ...DocumentOption) (*DocumentValidator, error) {
	doc, err := libopenapi.NewDocument(spec)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	v, errs := validator.NewValidator(doc)
	if len(errs) > 0 {
		return nil, fmt.Errorf("build validator: %w", errs[0])
	}

	dv := &DocumentValidator{
		validator:    v,
		errorHandler: DefaultErrorHandler,
	}
	for _, opt := range opts {
		opt(dv)
	}
	return dv, nil
}

// NewDocumentValidatorFromBase64 creates a validator from a base64-encoded
// document, as embedded by the generated GetSpec.
func NewDocumentValidatorFromBase64(encoded string, opts ...DocumentOption) (*DocumentValidator, error) {
	spec, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return NewDocumentValidator(spec, opts...)
}

// Handler returns a middleware rejecting requests the document does not allow.
func (v *DocumentValidator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ok, errs := v.validator.ValidateHttpRequestSync(r); !ok {
			v.errorHandler(w, r, &ValidationError{
				StatusCode: http.StatusBadRequest,
				Message:    "request validation failed",
				Errors:     documentErrors(errs),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func documentErrors(errs []*validatorErrors.ValidationError) []FieldError {
	result := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		reason := e.Reason
		if e.HowToFix != "" {
			reason += " (" + e.HowToFix + ")"
		}
		result = append(result, FieldError{
			In:      e.ValidationType,
			Message: e.Message,
			Reason:  reason,
		})
	}
	return result
}
