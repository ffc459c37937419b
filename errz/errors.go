// Package errz defines the error types produced by flow analysis and
// evaluation, together with stack frames and a friendly formatter.
package errz

import (
	"errors"
	"fmt"
	"strings"
)

// StackFrame is one entry of an evaluation call stack.
type StackFrame struct {
	Class  string // dotted class name
	Method string
	// Line carries the per-frame size metric while the frame is live. It is
	// -1 in frames handed out as stack traces.
	Line int
}

// String returns a formatted string representation of the stack frame.
func (f StackFrame) String() string {
	if f.Line >= 0 {
		return fmt.Sprintf("at %s.%s (%d)", f.Class, f.Method, f.Line)
	}
	return fmt.Sprintf("at %s.%s", f.Class, f.Method)
}

// FormatStackTrace formats a slice of stack frames as a human-readable string.
func FormatStackTrace(frames []StackFrame) string {
	if len(frames) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Stack trace:\n")
	for _, frame := range frames {
		b.WriteString("  ")
		b.WriteString(frame.String())
		b.WriteString("\n")
	}
	return b.String()
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// AnalysisError reports a construct the flow analysis cannot handle, such as
// a jsr/ret subroutine.
type AnalysisError struct {
	Method  string
	Index   int // instruction index, -1 if not tied to one
	Message string
}

func (e *AnalysisError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("analysis error: %s: %s", e.Method, e.Message)
	}
	return fmt.Sprintf("analysis error: %s at %d: %s", e.Method, e.Index, e.Message)
}

// AnalysisErrorf creates an AnalysisError with a formatted message.
func AnalysisErrorf(method string, index int, format string, args ...any) *AnalysisError {
	return &AnalysisError{Method: method, Index: index, Message: fmt.Sprintf(format, args...)}
}

// AbortSignal is raised by a provider that has obtained what it needs and
// wants the whole evaluation to stop. It is a success signal, not a fault,
// and is never wrapped into an ExecutionError.
type AbortSignal struct {
	// Value is whatever the aborting provider wants to hand back.
	Value any
}

func (a *AbortSignal) Error() string {
	return "evaluation aborted"
}

// Abort returns a new AbortSignal carrying value.
func Abort(value any) *AbortSignal {
	return &AbortSignal{Value: value}
}

// IsAbort reports whether err is, or wraps, an AbortSignal.
func IsAbort(err error) bool {
	var a *AbortSignal
	return errors.As(err, &a)
}

// AsAbort returns the AbortSignal inside err, if any.
func AsAbort(err error) (*AbortSignal, bool) {
	var a *AbortSignal
	ok := errors.As(err, &a)
	return a, ok
}

// AsExecution returns the ExecutionError inside err, if any.
func AsExecution(err error) (*ExecutionError, bool) {
	var e *ExecutionError
	ok := errors.As(err, &e)
	return e, ok
}
