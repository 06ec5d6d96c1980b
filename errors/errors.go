package errors

import (
	"errors"
	"fmt"
)

// Standard codec errors
var (
	ErrEmptyInput         = errors.New("input is empty or contains only whitespace")
	ErrUnexpectedByte     = errors.New("unexpected byte")
	ErrUnterminatedString = errors.New("unterminated string literal")
	ErrInvalidNumber      = errors.New("invalid number literal")
	ErrTrailingData       = errors.New("trailing data after top-level value")
	ErrMissingField       = errors.New("required field is missing")
	ErrWrongKind          = errors.New("value has the wrong kind")
	ErrOutOfRange         = errors.New("number does not fit the target type")
	ErrFileNotFound       = errors.New("file not found")
	ErrFileEmpty          = errors.New("file is empty")
	ErrNoInput            = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput      ErrorType = "input"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeConversion ErrorType = "conversion"
	ErrorTypeOutput     ErrorType = "output"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// CodecError is the error type shared by the parser and both conversion
// directions. Keeping a single concrete type lets composite conversions
// propagate a child failure without translation.
type CodecError struct {
	Type    ErrorType
	Message string
	// Offset is the byte offset of a parse failure, or -1 when the error
	// is not tied to a position in the input.
	Offset int
	Err    error
}

// Error implements error interface
func (e *CodecError) Error() string {
	switch {
	case e.Err != nil && e.Offset >= 0:
		return fmt.Sprintf("%s: %s at offset %d: %v", e.Type, e.Message, e.Offset, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	case e.Offset >= 0:
		return fmt.Sprintf("%s: %s at offset %d", e.Type, e.Message, e.Offset)
	default:
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
}

// Unwrap returns wrapped error
func (e *CodecError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *CodecError) Is(target error) bool {
	t, ok := target.(*CodecError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to reading input
func NewInputError(message string, err error) *CodecError {
	return &CodecError{
		Type:    ErrorTypeInput,
		Message: message,
		Offset:  -1,
		Err:     err,
	}
}

// NewParseError creates a new error related to JSON parsing
func NewParseError(message string, err error) *CodecError {
	return &CodecError{
		Type:    ErrorTypeParse,
		Message: message,
		Offset:  -1,
		Err:     err,
	}
}

// NewParseErrorAt creates a parse error carrying the byte offset of the failure
func NewParseErrorAt(message string, offset int, err error) *CodecError {
	return &CodecError{
		Type:    ErrorTypeParse,
		Message: message,
		Offset:  offset,
		Err:     err,
	}
}

// NewConversionError creates a new error related to Value-to-host conversion
func NewConversionError(message string, err error) *CodecError {
	return &CodecError{
		Type:    ErrorTypeConversion,
		Message: message,
		Offset:  -1,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *CodecError {
	return &CodecError{
		Type:    ErrorTypeOutput,
		Message: message,
		Offset:  -1,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var codecErr *CodecError
	if errors.As(err, &codecErr) {
		switch codecErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", codecErr.Message)
		case ErrorTypeParse:
			if codecErr.Offset >= 0 {
				return fmt.Sprintf("JSON parse error: %s (offset %d)", codecErr.Message, codecErr.Offset)
			}
			return fmt.Sprintf("JSON parse error: %s", codecErr.Message)
		case ErrorTypeConversion:
			return fmt.Sprintf("Conversion error: %s", codecErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", codecErr.Message)
		default:
			return fmt.Sprintf("Error: %s", codecErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrTrailingData) {
		return "Error: Extra data found after the first JSON value. Please provide a single JSON document."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe JSON data to stdin."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
