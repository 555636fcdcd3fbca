package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/internmatch/internal/ingestion"
	"github.com/jonathan/internmatch/internal/recommend"
	"github.com/jonathan/internmatch/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrPayloadTooLarge indicates the request body exceeded the allowed size.
type ErrPayloadTooLarge struct {
	Limit int64
}

func (e *ErrPayloadTooLarge) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *recommend.ValidationError
		schemaErr      *schemas.ValidationError
		fieldErrs      validator.ValidationErrors
		requestErr     *ErrValidation
		unsupportedErr *ingestion.UnsupportedInputError
		tooLargeErr    *ErrPayloadTooLarge
	)
	switch {
	case errors.As(err, &validationErr):
		if validationErr.Extracted {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadRequest
	case errors.As(err, &schemaErr), errors.As(err, &fieldErrs), errors.As(err, &requestErr):
		return http.StatusBadRequest
	case errors.As(err, &unsupportedErr):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &tooLargeErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.Canceled):
		// client went away; nobody reads this
		return 499
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string               `json:"error"`
	Fields  []string             `json:"fields,omitempty"`
	Details []schemas.FieldError `json:"details,omitempty"`
}

// publicError converts err to what the caller may see. Internal failures are
// reported generically.
func publicError(err error) errorBody {
	var (
		validationErr  *recommend.ValidationError
		schemaErr      *schemas.ValidationError
		fieldErrs      validator.ValidationErrors
		requestErr     *ErrValidation
		unsupportedErr *ingestion.UnsupportedInputError
		tooLargeErr    *ErrPayloadTooLarge
	)
	switch {
	case errors.As(err, &validationErr):
		fields := make([]string, len(validationErr.Fields))
		for i, f := range validationErr.Fields {
			fields[i] = string(f)
		}
		return errorBody{Error: validationErr.Error(), Fields: fields}
	case errors.As(err, &schemaErr):
		return errorBody{Error: "request does not match the expected format", Details: schemaErr.Errors}
	case errors.As(err, &fieldErrs):
		fields := make([]string, len(fieldErrs))
		for i, fe := range fieldErrs {
			fields[i] = fe.Field()
		}
		return errorBody{Error: "missing required fields", Fields: fields}
	case errors.As(err, &requestErr):
		return errorBody{Error: requestErr.Message, Fields: []string{requestErr.Field}}
	case errors.As(err, &unsupportedErr):
		return errorBody{Error: unsupportedErr.Message()}
	case errors.As(err, &tooLargeErr):
		return errorBody{Error: tooLargeErr.Error()}
	default:
		return errorBody{Error: "internal server error"}
	}
}
