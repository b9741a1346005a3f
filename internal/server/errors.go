package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/profile-optimizer/internal/schemas"
	"github.com/jonathan/profile-optimizer/internal/scoring"
	"github.com/jonathan/profile-optimizer/internal/store"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a named resource does not exist
type ErrNotFound struct {
	Kind string
	Name string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var validationErr *ErrValidation
	var schemaErr *schemas.ValidationError
	var notFound *ErrNotFound

	switch {
	case errors.As(err, &validationErr), errors.As(err, &schemaErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.Is(err, scoring.ErrUnknownSection):
		return http.StatusNotFound
	case errors.Is(err, store.ErrUnsupportedVersion):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
