package errors

import (
	"fmt"
	"time"
)

// ErrorCategory represents different types of errors that can occur
// while theming a host process.
type ErrorCategory string

const (
	ErrorValidation ErrorCategory = "validation" // malformed seed colors, bad preset names
	ErrorBridge     ErrorCategory = "bridge"     // node/resource read or write failures
	ErrorPlatform   ErrorCategory = "platform"   // window-chrome and other OS adapter failures
	ErrorConfig     ErrorCategory = "config"     // settings/preset file problems
	ErrorInternal   ErrorCategory = "internal"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityLow      ErrorSeverity = "low"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityHigh     ErrorSeverity = "high"
	SeverityCritical ErrorSeverity = "critical"
)

// ThemeError represents a structured error with metadata about where in
// the theming pipeline it happened.
type ThemeError struct {
	Category    ErrorCategory          `json:"category"`
	Severity    ErrorSeverity          `json:"severity"`
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Cause       error                  `json:"cause,omitempty"`
	Recoverable bool                   `json:"recoverable"`
	Timestamp   time.Time              `json:"timestamp"`
	Context     map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *ThemeError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *ThemeError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for error chains
func (e *ThemeError) Is(target error) bool {
	if t, ok := target.(*ThemeError); ok {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// WithContext adds contextual information to the error
func (e *ThemeError) WithContext(key string, value interface{}) *ThemeError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause sets the underlying cause of this error
func (e *ThemeError) WithCause(cause error) *ThemeError {
	e.Cause = cause
	return e
}

// WithSeverity sets the severity level
func (e *ThemeError) WithSeverity(severity ErrorSeverity) *ThemeError {
	e.Severity = severity
	return e
}

// WithDetails adds additional details to the error
func (e *ThemeError) WithDetails(details string) *ThemeError {
	e.Details = details
	return e
}

// AsRecoverable marks the error as recoverable
func (e *ThemeError) AsRecoverable() *ThemeError {
	e.Recoverable = true
	return e
}

// IsCategory checks if the error belongs to a specific category
func (e *ThemeError) IsCategory(category ErrorCategory) bool {
	return e.Category == category
}

// IsCode checks if the error has a specific code
func (e *ThemeError) IsCode(code string) bool {
	return e.Code == code
}

// New creates a new ThemeError with the specified parameters
func New(category ErrorCategory, code, message string) *ThemeError {
	return &ThemeError{
		Category:    category,
		Severity:    SeverityMedium,
		Code:        code,
		Message:     message,
		Recoverable: false,
		Timestamp:   time.Now(),
	}
}

// Wrap creates a new ThemeError that wraps an existing error
func Wrap(err error, category ErrorCategory, code, message string) *ThemeError {
	return &ThemeError{
		Category:    category,
		Severity:    SeverityMedium,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: false,
		Timestamp:   time.Now(),
	}
}

// ValidationError creates a validation-related error. Seed-color
// validation failures surface through here before any mutation happens.
func ValidationError(code, message string) *ThemeError {
	return New(ErrorValidation, code, message).
		WithSeverity(SeverityMedium)
}

// BridgeError creates an error for a failed node or resource operation.
// These are always recoverable: the walk or apply that hit them logs
// and continues.
func BridgeError(code, message string) *ThemeError {
	return New(ErrorBridge, code, message).
		WithSeverity(SeverityLow).
		AsRecoverable()
}

// PlatformError creates an error for an OS adapter failure (title bar
// accent and similar). Fully non-fatal.
func PlatformError(code, message string) *ThemeError {
	return New(ErrorPlatform, code, message).
		WithSeverity(SeverityLow).
		AsRecoverable()
}

// ConfigError creates a configuration-related error
func ConfigError(code, message string) *ThemeError {
	return New(ErrorConfig, code, message).
		WithSeverity(SeverityHigh)
}
