package errz

import (
	"bytes"
	"fmt"
)

// ErrorKind represents the category of an execution error.
type ErrorKind int

const (
	// ErrUnsupported indicates no provider claimed an operation.
	ErrUnsupported ErrorKind = iota
	// ErrFault indicates a provider or the interpreter failed an operation.
	ErrFault
	// ErrArithmetic indicates integer division by zero.
	ErrArithmetic
	// ErrLimit indicates the depth or step bound was exceeded, or the
	// evaluation was cancelled.
	ErrLimit
	// ErrThrown indicates an exception escaped the evaluated method.
	ErrThrown
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrUnsupported:
		return "unsupported operation"
	case ErrFault:
		return "execution error"
	case ErrArithmetic:
		return "arithmetic error"
	case ErrLimit:
		return "limit exceeded"
	case ErrThrown:
		return "uncaught exception"
	default:
		return "error"
	}
}

// ExecutionError is raised when an operation during evaluation is unclaimed
// or fails. It carries the evaluation stack at the point of failure.
type ExecutionError struct {
	Message string
	Kind    ErrorKind
	Stack   []StackFrame
	Cause   error
	// Thrown holds the exception value for ErrThrown.
	Thrown any
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// FriendlyErrorMessage returns the error followed by its stack trace.
func (e *ExecutionError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	msg.WriteString(e.Error())
	msg.WriteString("\n")
	if len(e.Stack) > 0 {
		msg.WriteString("\n")
		msg.WriteString(FormatStackTrace(e.Stack))
	}
	return msg.String()
}

// NewExecutionError creates a new ExecutionError.
func NewExecutionError(kind ErrorKind, message string, stack []StackFrame) *ExecutionError {
	return &ExecutionError{Message: message, Kind: kind, Stack: stack}
}

// ExecutionErrorf creates a new ExecutionError with a formatted message.
func ExecutionErrorf(kind ErrorKind, stack []StackFrame, format string, args ...any) *ExecutionError {
	return &ExecutionError{
		Message: fmt.Sprintf(format, args...),
		Kind:    kind,
		Stack:   stack,
	}
}

// WithCause wraps the error with a cause.
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	e.Cause = cause
	return e
}

// Wrap turns err into an ExecutionError. Abort signals and errors that
// already are ExecutionErrors are returned unchanged.
func Wrap(err error, stack []StackFrame, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if IsAbort(err) {
		return err
	}
	if _, ok := AsExecution(err); ok {
		return err
	}
	return ExecutionErrorf(ErrFault, stack, format, args...).WithCause(err)
}
