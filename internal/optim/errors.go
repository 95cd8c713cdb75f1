package optim

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	ErrDimensionMismatch    = errors.New("dimension mismatch")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrUnknownDescentName   = errors.New("unknown descent name")
)

// DimensionMismatchError reports a shape disagreement between the weight
// vector, the feature matrix and the target vector.
type DimensionMismatchError struct {
	Operand  string // Which operand disagreed (e.g. "X columns", "y length")
	Expected int
	Actual   int
}

// Error implements the error interface.
func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("%s: %s: expected %d, got %d", ErrDimensionMismatch, e.Operand, e.Expected, e.Actual)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// InvalidConfigurationError describes a hyperparameter outside its allowed range.
type InvalidConfigurationError struct {
	Name    string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s = %v: %s", ErrInvalidConfiguration, e.Name, e.Value, e.Message)
}

// Is reports whether target is ErrInvalidConfiguration.
func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// UnknownDescentNameError is returned by the factory for unrecognised names.
type UnknownDescentNameError struct {
	Name  string
	Valid []string
}

// Error implements the error interface.
func (e *UnknownDescentNameError) Error() string {
	return fmt.Sprintf("%s %q, use one of these: {%s}", ErrUnknownDescentName, e.Name, strings.Join(e.Valid, ", "))
}

// Is reports whether target is ErrUnknownDescentName.
func (e *UnknownDescentNameError) Is(target error) bool {
	return target == ErrUnknownDescentName
}

func invalidArgument(name string, value any, message string) error {
	return &InvalidConfigurationError{Name: name, Value: value, Message: message}
}
