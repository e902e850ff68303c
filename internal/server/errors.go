// Package server provides the HTTP API behind the recruitment dashboard.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/recruit-tracker/internal/schemas"
	"github.com/jonathan/recruit-tracker/internal/store"
)

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrNotFound indicates no row has the requested id.
type ErrNotFound struct {
	Table store.TableName
	ID    int
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s row %d not found", e.Table, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrTooLarge indicates a request body over the upload limit.
type ErrTooLarge struct {
	Limit int64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		invalidCreds *ErrInvalidCredentials
		notFound     *ErrNotFound
		validation   *ErrValidation
		malformed    *store.MalformedInputError
		schemaErr    *schemas.ValidationError
		unknownTable *store.UnknownTableError
		unknownFmt   *store.UnknownFormatError
		tooLarge     *ErrTooLarge
	)
	switch {
	case errors.As(err, &invalidCreds):
		return http.StatusUnauthorized
	case errors.As(err, &notFound), errors.As(err, &unknownTable):
		return http.StatusNotFound
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validation), errors.As(err, &malformed),
		errors.As(err, &schemaErr), errors.As(err, &unknownFmt):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
