package errors

import (
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeUnknown  ErrorCode = "UNKNOWN"
	ErrCodeInternal ErrorCode = "COMMON_001"
	ErrCodeCanceled ErrorCode = "COMMON_017"
)

// Configuration Error Codes
const (
	ErrCodeConfigFile                ErrorCode = "CFG_001"
	ErrCodeInvalidPrior              ErrorCode = "CFG_002"
	ErrCodeAmbiguousPredictionTarget ErrorCode = "CFG_003"
	ErrCodeInvalidConfig             ErrorCode = "CFG_004"
)

// Input Data Error Codes
const (
	ErrCodeMissingFile    ErrorCode = "DAT_001"
	ErrCodeMalformedInput ErrorCode = "DAT_002"
	ErrCodeDuplicateName  ErrorCode = "DAT_003"
)

// Artifact Storage Error Codes
const (
	ErrCodeArtifactStore ErrorCode = "STO_001"
)

// Process exit statuses returned by the gift binary.
const (
	ExitFailure     = 1
	ExitConfigError = 2
	ExitDataError   = 3
	ExitStoreError  = 4
)

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal: "internal error",
	ErrCodeCanceled: "operation canceled",

	ErrCodeConfigFile:                "configuration source unreadable",
	ErrCodeInvalidPrior:              "invalid empirical Bayes prior",
	ErrCodeAmbiguousPredictionTarget: "ambiguous prediction target",
	ErrCodeInvalidConfig:             "invalid configuration value",

	ErrCodeMissingFile:    "input file missing",
	ErrCodeMalformedInput: "malformed input",
	ErrCodeDuplicateName:  "duplicate name",

	ErrCodeArtifactStore: "artifact store failure",
}

// ExitStatusForCode returns the process exit status for an ErrorCode,
// chosen by the module the code belongs to.
func ExitStatusForCode(code ErrorCode) int {
	switch {
	case IsConfigError(code):
		return ExitConfigError
	case IsDataError(code):
		return ExitDataError
	case IsStoreError(code):
		return ExitStoreError
	default:
		return ExitFailure
	}
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsConfigError returns true if the ErrorCode belongs to the configuration module.
func IsConfigError(code ErrorCode) bool {
	return ModuleForCode(code) == "CFG"
}

// IsDataError returns true if the ErrorCode belongs to the input data module.
func IsDataError(code ErrorCode) bool {
	return ModuleForCode(code) == "DAT"
}

// IsStoreError returns true if the ErrorCode belongs to the artifact storage module.
func IsStoreError(code ErrorCode) bool {
	return ModuleForCode(code) == "STO"
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
