package artdeco

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrStructuralSignature indicates a signature declares more than one
	// var-positional or var-keyword parameter, a duplicate name, or an invalid name.
	ErrStructuralSignature = errors.New("structural signature error")

	// ErrArity indicates a call supplied values the signature cannot absorb.
	ErrArity = errors.New("arity error")

	// ErrUnconfiguredProcessor indicates a processor function carries no marker.
	ErrUnconfiguredProcessor = errors.New("unconfigured processor")

	// ErrTypeResolution indicates a declared type could not be resolved.
	ErrTypeResolution = errors.New("type resolution failed")

	// ErrVariadicShape indicates a variadic processor returned a value that
	// does not match the shape of the group it was given.
	ErrVariadicShape = errors.New("variadic shape mismatch")

	// ErrNameCollision indicates two bound arguments share a name.
	ErrNameCollision = errors.New("argument name collision")

	// ErrUnknownArgument indicates a wide check referenced an argument that was not bound.
	ErrUnknownArgument = errors.New("unknown argument")

	// ErrUnknownHack indicates a struct tag referenced an unregistered processor.
	ErrUnknownHack = errors.New("unknown hack")

	// ErrInvalidTag indicates a struct tag has an invalid format or value.
	ErrInvalidTag = errors.New("invalid tag")

	// ErrCallShape indicates reconstructed arguments do not fit the underlying Go function.
	ErrCallShape = errors.New("call shape mismatch")

	// ErrTransform indicates a processor failed to transform an argument.
	ErrTransform = errors.New("transform failed")
)

// ArityError reports values that could not be bound to a signature.
type ArityError struct {
	Target  string   // Callable name, if known
	Message string   // What went wrong
	Names   []string // Offending argument names, if any
}

func (e *ArityError) Error() string {
	var b strings.Builder
	b.WriteString(ErrArity.Error())
	if e.Target != "" {
		fmt.Fprintf(&b, " calling %s", e.Target)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Names) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(e.Names, ", "))
	}
	return b.String()
}

func (e *ArityError) Unwrap() error {
	return ErrArity
}

// UnconfiguredProcessorError identifies an argument whose processor lacks a marker.
type UnconfiguredProcessorError struct {
	Arg  string // Argument being processed
	Func string // Printed form of the offending value
}

func (e *UnconfiguredProcessorError) Error() string {
	return fmt.Sprintf("%s: %s for argument %q needs a Hacker or SpecHacker marker", ErrUnconfiguredProcessor.Error(), e.Func, e.Arg)
}

func (e *UnconfiguredProcessorError) Unwrap() error {
	return ErrUnconfiguredProcessor
}

// TypeResolutionError reports a declared type that could not be resolved.
type TypeResolutionError struct {
	Target string // Callable name
	Param  string // Parameter name, empty when the failure is not parameter specific
	Type   string // Textual type that failed
	Cause  error  // Underlying resolver error
}

func (e *TypeResolutionError) Error() string {
	var b strings.Builder
	b.WriteString(ErrTypeResolution.Error())
	if e.Target != "" {
		fmt.Fprintf(&b, " for %s", e.Target)
	}
	if e.Param != "" {
		fmt.Fprintf(&b, " (param %s)", e.Param)
	}
	if e.Type != "" {
		fmt.Fprintf(&b, ": %q", e.Type)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *TypeResolutionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrTypeResolution, e.Cause}
	}
	return []error{ErrTypeResolution}
}

// ArgError wraps a failure raised while processing a single argument.
type ArgError struct {
	Arg   string // Argument name
	Cause error  // Original error from the processor
}

func (e *ArgError) Error() string {
	return fmt.Sprintf("process arg %s: %v", e.Arg, e.Cause)
}

func (e *ArgError) Unwrap() error {
	return e.Cause
}

// ConfigError represents a processor configuration error.
// It wraps a sentinel error with additional context about the field and value.
type ConfigError struct {
	Err   error  // Underlying sentinel error (ErrInvalidTag, ErrUnknownHack, ...)
	Field string // Field or parameter that triggered the error
	Value string // Offending value
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("%s %q (field %s)", e.Err.Error(), e.Value, e.Field)
	}
	if e.Value != "" {
		return fmt.Sprintf("%s %q", e.Err.Error(), e.Value)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s (field %s)", e.Err.Error(), e.Field)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// newConfigError creates a ConfigError.
func newConfigError(sentinel error, field, value string) error {
	return &ConfigError{
		Err:   sentinel,
		Field: field,
		Value: value,
	}
}

// newArityError creates an ArityError.
func newArityError(msg string, names ...string) *ArityError {
	return &ArityError{Message: msg, Names: names}
}

// structuralError wraps ErrStructuralSignature with a reason.
func structuralError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructuralSignature, fmt.Sprintf(format, args...))
}
