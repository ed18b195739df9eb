// Package parsererror defines the typed errors returned by the workbook and
// ledger readers.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrEmptyWorkbook is returned when a workbook has no sheets at all.
var ErrEmptyWorkbook = errors.New("workbook has no sheets")

// SheetNotFoundError is returned when a required sheet or section is absent.
type SheetNotFoundError struct {
	Source string
	Sheet  string
}

func (e *SheetNotFoundError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("sheet %q not found", e.Sheet)
	}
	return fmt.Sprintf("sheet %q not found in %s", e.Sheet, e.Source)
}

// HeaderNotFoundError is returned when no header row could be located in a sheet.
type HeaderNotFoundError struct {
	Sheet    string
	Expected []string
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("header row not found in sheet %q (expected %v)", e.Sheet, e.Expected)
}

// ParseError represents an error during parsing
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidFormatError is returned when the input does not look like the
// expected kind of file.
type InvalidFormatError struct {
	Source         string
	ExpectedFormat string
	Msg            string
	Err            error
}

func (e *InvalidFormatError) Error() string {
	msg := fmt.Sprintf("invalid format in '%s': %s. Expected: %s", e.Source, e.Msg, e.ExpectedFormat)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidFormatError) Unwrap() error {
	return e.Err
}
