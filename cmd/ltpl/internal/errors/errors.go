// Package errors defines the error codes surfaced by ltpl.
package errors

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// Code is a stable error code string.
type Code string

const (
	EUsage         Code = "E_USAGE"
	EAborted       Code = "E_ABORTED"
	EConfigInvalid Code = "E_CONFIG_INVALID"
	EInternal      Code = "E_INTERNAL"

	// Scaffolding
	EProjectExists    Code = "E_PROJECT_EXISTS"
	ECommandFailed    Code = "E_COMMAND_FAILED"
	ECommandNotFound  Code = "E_COMMAND_NOT_FOUND"
	EWriteFailed      Code = "E_WRITE_FAILED"
	ETemplateMissing  Code = "E_TEMPLATE_MISSING"
	EChecksumMismatch Code = "E_CHECKSUM_MISMATCH"
)

// ScaffoldError is the standard error type for ltpl.
type ScaffoldError struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string
}

// Error returns "CODE: message".
func (e *ScaffoldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *ScaffoldError) Unwrap() error {
	return e.Cause
}

// New creates a new ScaffoldError with the given code and message.
func New(code Code, msg string) error {
	return &ScaffoldError{Code: code, Msg: msg}
}

// NewWithDetails creates a new ScaffoldError with code, message, and details.
// The details map is copied.
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return &ScaffoldError{Code: code, Msg: msg, Details: copyDetails(details)}
}

// Wrap creates a new ScaffoldError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &ScaffoldError{Code: code, Msg: msg, Cause: err}
}

// WrapWithDetails creates a new ScaffoldError wrapping err with details.
// The details map is copied.
func WrapWithDetails(code Code, msg string, err error, details map[string]string) error {
	return &ScaffoldError{Code: code, Msg: msg, Cause: err, Details: copyDetails(details)}
}

// GetCode extracts the error code from an error, or "" if err is not a ScaffoldError.
func GetCode(err error) Code {
	var se *ScaffoldError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// AsScaffoldError returns (*ScaffoldError, true) if err is or wraps a ScaffoldError.
func AsScaffoldError(err error) (*ScaffoldError, bool) {
	var se *ScaffoldError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}

// ExitCode returns the process exit code for an error.
// 0 for nil, 2 for E_USAGE, 130 for E_ABORTED, 1 otherwise.
func ExitCode(err error) int {
	switch GetCode(err) {
	case "":
		if err == nil {
			return 0
		}
		return 1
	case EUsage:
		return 2
	case EAborted:
		return 130
	default:
		return 1
	}
}

// Print writes err to w:
//
//	error_code: <CODE>
//	<message>
//	  <key>: <value>
//	cause: <underlying error>
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	se, ok := AsScaffoldError(err)
	if !ok {
		fmt.Fprintln(w, err.Error())
		return
	}

	fmt.Fprintf(w, "error_code: %s\n", se.Code)
	fmt.Fprintln(w, se.Msg)

	keys := make([]string, 0, len(se.Details))
	for k := range se.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, se.Details[k])
	}

	if se.Cause != nil {
		fmt.Fprintf(w, "cause: %v\n", se.Cause)
	}
}
