package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fincomply/sarforge/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidPage  = errors.New("limit and offset must not be negative")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecord validates a record before persisting it.
func validateRecord(rec *model.SARRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if rec.Fields == nil {
		return fmt.Errorf("%w: record fields", ErrNilParameter)
	}
	return nil
}

// validatePage validates paging parameters.
func validatePage(limit, offset int) error {
	if limit < 0 || offset < 0 {
		return ErrInvalidPage
	}
	return nil
}
