package summarizer

import (
	"errors"
	"fmt"

	"github.com/spacesedan/textsummarizer/internal/models"
)

// ErrorKind lets surface layers pick a distinct message per failure.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindDivision        ErrorKind = "division"
	KindExternalService ErrorKind = "external_service"
	KindInternal        ErrorKind = "internal"
)

// ValidationError rejects a request before the capability is invoked.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DivisionError guards the compression ratio against a zero word count.
type DivisionError struct {
	Reason string
}

func (e *DivisionError) Error() string {
	return "cannot compute compression ratio: " + e.Reason
}

// ExternalServiceError wraps any failure of the summarization capability,
// including failure to initialize it.
type ExternalServiceError struct {
	Provider string
	Err      error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("summarization service %q failed: %v", e.Provider, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

func Kind(err error) ErrorKind {
	var (
		validationErr *ValidationError
		divisionErr   *DivisionError
		externalErr   *ExternalServiceError
	)

	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &divisionErr):
		return KindDivision
	case errors.As(err, &externalErr):
		return KindExternalService
	default:
		return KindInternal
	}
}

// Describe renders err for clients. Internal errors keep their message out
// of the response.
func Describe(err error) models.ErrorBody {
	kind := Kind(err)
	if kind == KindInternal {
		return models.ErrorBody{Kind: string(kind), Message: "internal error"}
	}
	return models.ErrorBody{Kind: string(kind), Message: err.Error()}
}
