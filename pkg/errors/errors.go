// Package errors provides the unified error type and factory functions for
// gift.  Every layer (domain, application, infrastructure, interfaces) uses
// AppError as the single carrier for structured error information, so the CLI
// can map any failure to a message that names the offending field or file and
// to a stable process exit status.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		// Trim standard-library noise to keep traces readable.
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError: the canonical error type
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout gift.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work across layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeMalformedInput, "row 3 has 7 fields, want 9")
//	return errors.Wrap(err, errors.ErrCodeUnknown, "drug2subFileName")
//	return errors.MissingFile("drugNameListFile", path, err)
type AppError struct {
	// Code is the typed error code that identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error.
	Message string

	// Detail carries supplementary context such as a file path or line number.
	Detail string

	// Cause is the underlying error that triggered this AppError.
	Cause error

	// Stack contains the formatted call-stack captured at the point of error
	// creation.  It is not included in Error() output.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>: <cause>"
// Empty segments are omitted.
func (e *AppError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Code.String(), e.Message)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set to the
// supplied string.  It is safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Primary factory functions
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf is New with a format string.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.
// If err is nil, Wrap returns nil so it can be used inline.
//
// When err already carries an *AppError and code is ErrCodeUnknown the
// original code is preserved, so a caller can add context (typically the
// configuration field that named a file) without losing the classification.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == ErrCodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error-chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
//
//	if errors.IsCode(err, errors.ErrCodeDuplicateName) { ... }
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError found in err's chain.
// If no *AppError is present, ErrCodeUnknown is returned.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ErrCodeUnknown
}

// ─────────────────────────────────────────────────────────────────────────────
// Factories for the gift failure taxonomy
// ─────────────────────────────────────────────────────────────────────────────

// ConfigFile reports that the configuration source at path could not be
// opened or parsed.
func ConfigFile(path string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeConfigFile,
		Message: fmt.Sprintf("cannot read configuration %q", path),
		Cause:   cause,
		Stack:   captureStack(1),
	}
}

// MissingFile reports that the file declared by the configuration field
// could not be opened.  field may be empty when the caller does not know it.
func MissingFile(field, path string, cause error) *AppError {
	msg := fmt.Sprintf("cannot open %q", path)
	if field != "" {
		msg = fmt.Sprintf("%s: cannot open %q", field, path)
	}
	return &AppError{
		Code:    ErrCodeMissingFile,
		Message: msg,
		Cause:   cause,
		Stack:   captureStack(1),
	}
}

// MalformedInput reports a structural problem in a data file.  line is
// 1-based; pass 0 when the problem is not tied to a single line.
func MalformedInput(path string, line int, message string) *AppError {
	detail := path
	if line > 0 {
		detail = fmt.Sprintf("%s:%d", path, line)
	}
	return &AppError{
		Code:    ErrCodeMalformedInput,
		Message: message,
		Detail:  detail,
		Stack:   captureStack(1),
	}
}

// DuplicateName reports a name that occurs twice within one name list.
func DuplicateName(path, name string, first, second int) *AppError {
	return &AppError{
		Code:    ErrCodeDuplicateName,
		Message: fmt.Sprintf("name %q appears at records %d and %d", name, first+1, second+1),
		Detail:  path,
		Stack:   captureStack(1),
	}
}

// AmbiguousPredictionTarget reports that predict mode did not receive exactly
// one prediction target list.
func AmbiguousPredictionTarget(message string) *AppError {
	return &AppError{
		Code:    ErrCodeAmbiguousPredictionTarget,
		Message: message,
		Stack:   captureStack(1),
	}
}

// InvalidPrior reports an unusable (alphaEB, betaEB) pair.
func InvalidPrior(alpha, beta float64) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidPrior,
		Message: fmt.Sprintf("alphaEB=%g betaEB=%g: both must be finite and non-negative with a positive sum", alpha, beta),
		Stack:   captureStack(1),
	}
}

// InvalidConfig reports a configuration value outside its permitted range.
func InvalidConfig(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidConfig,
		Message: field + ": " + message,
		Stack:   captureStack(1),
	}
}

// Internal constructs an ErrCodeInternal AppError.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Stack:   captureStack(1),
	}
}
