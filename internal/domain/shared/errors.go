package shared

import (
	"fmt"
	"strings"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Configuration errors are fatal at startup and never retried.

type ConfigurationError struct {
	*DomainError
	Setting string
}

func NewConfigurationError(setting, message string) *ConfigurationError {
	return &ConfigurationError{
		DomainError: &DomainError{Message: fmt.Sprintf("configuration %s: %s", setting, message)},
		Setting:     setting,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// MissingParameterError is raised when a parameter an operation cannot work
// without was not supplied. It is reported back as a clarification request.
type MissingParameterError struct {
	*DomainError
	Parameter string
}

func NewMissingParameterError(parameter, message string) *MissingParameterError {
	return &MissingParameterError{
		DomainError: &DomainError{Message: message},
		Parameter:   parameter,
	}
}

// UnresolvedName is one user supplied value that matched no known entity.
type UnresolvedName struct {
	Parameter string
	Value     string
}

// UnresolvedNameError collects every unresolved value of a single request so the
// caller can ask for all of them at once.
type UnresolvedNameError struct {
	Names []UnresolvedName
}

func (e *UnresolvedNameError) Error() string {
	parts := make([]string, 0, len(e.Names))
	for _, n := range e.Names {
		parts = append(parts, fmt.Sprintf("%s: %q", n.Parameter, n.Value))
	}
	return "unresolved names: " + strings.Join(parts, ", ")
}

// Add records another unresolved value
func (e *UnresolvedNameError) Add(parameter, value string) {
	e.Names = append(e.Names, UnresolvedName{Parameter: parameter, Value: value})
}

// OrNil returns nil when nothing was recorded, so callers can build the error
// incrementally and return it unconditionally.
func (e *UnresolvedNameError) OrNil() error {
	if e == nil || len(e.Names) == 0 {
		return nil
	}
	return e
}
