// Package errors provides the error taxonomy of the quote catalog.
// Callers check error classes with errors.Is against the sentinels and
// recover details with errors.As against the typed errors.
package errors

import (
	"errors"
	"fmt"
)

// New is the standard library errors.New, re-exported for convenience.
var New = errors.New

// Sentinel errors.
var (
	// ErrValidation indicates a quote failed input validation.
	ErrValidation = errors.New("validation failed")

	// ErrParse indicates stored or supplied bytes are not valid JSON.
	ErrParse = errors.New("parse failed")

	// ErrShape indicates a payload is valid JSON but not an array of quote-shaped records.
	ErrShape = errors.New("unexpected shape")

	// ErrNetwork indicates a remote push or pull failed.
	ErrNetwork = errors.New("network failure")

	// ErrImport indicates an import was rejected.
	ErrImport = errors.New("import failed")

	// ErrSyncInFlight indicates a sync tick is already running.
	ErrSyncInFlight = errors.New("sync already in flight")

	// ErrSyncDisabled indicates synchronization is turned off.
	ErrSyncDisabled = errors.New("sync disabled")

	// ErrNoQuotes indicates the current view has nothing to display.
	ErrNoQuotes = errors.New("no quotes available")
)

// ValidationError reports a rejected field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ParseError reports undecodable content read from Source.
type ParseError struct {
	Source string
	Err    error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse %s: invalid content", e.Source)
	}
	return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError
func NewParseError(source string, err error) *ParseError {
	return &ParseError{Source: source, Err: err}
}

// ShapeError reports a payload that decoded but does not hold quote records.
type ShapeError struct {
	Source  string
	Message string
}

// Error implements the error interface
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: unexpected shape: %s", e.Source, e.Message)
}

// Is implements errors.Is support
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// NewShapeError creates a new ShapeError
func NewShapeError(source, message string) *ShapeError {
	return &ShapeError{Source: source, Message: message}
}

// NetworkError reports a failed request against the remote source.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s %s: request failed", e.Op, e.URL)
	}
}

// Unwrap implements errors.Unwrap
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(op, url string, statusCode int, err error) *NetworkError {
	return &NetworkError{Op: op, URL: url, StatusCode: statusCode, Err: err}
}

// ImportError wraps the parse or shape failure that rejected an import.
type ImportError struct {
	Err error
}

// Error implements the error interface
func (e *ImportError) Error() string {
	return fmt.Sprintf("import rejected: %v", e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ImportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ImportError) Is(target error) bool {
	return target == ErrImport
}

// NewImportError creates a new ImportError
func NewImportError(err error) *ImportError {
	return &ImportError{Err: err}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsImport reports whether err rejected an import.
func IsImport(err error) bool {
	return errors.Is(err, ErrImport)
}
