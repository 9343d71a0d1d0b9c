package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrBadRequestBody indicates the body could not be decoded
type ErrBadRequestBody struct {
	Cause error
}

func (e *ErrBadRequestBody) Error() string {
	return "invalid request body: " + e.Cause.Error()
}

func (e *ErrBadRequestBody) Unwrap() error {
	return e.Cause
}

// ErrStreamingUnsupported indicates the response writer cannot flush
var ErrStreamingUnsupported = errors.New("streaming not supported")

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var bodyErr *ErrBadRequestBody
	var fieldErrs validator.ValidationErrors
	switch {
	case errors.As(err, &bodyErr), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// validationMessage turns validator errors into one readable line.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s: failed '%s' check", jsonFieldName(fe.Field()), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

var fieldNames = map[string]string{
	"SiteURL": "site_url",
	"Limit":   "limit",
	"URL":     "url",
	"URLs":    "urls",
}

func jsonFieldName(field string) string {
	if name, ok := fieldNames[field]; ok {
		return name
	}
	return strings.ToLower(field)
}
