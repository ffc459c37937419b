package errz

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func TestStackFrameString(t *testing.T) {
	require.Equal(t, "at a.B.run (3)", StackFrame{Class: "a.B", Method: "run", Line: 3}.String())
	require.Equal(t, "at a.B.run", StackFrame{Class: "a.B", Method: "run", Line: -1}.String())
}

func TestFormatStackTrace(t *testing.T) {
	require.Equal(t, "", FormatStackTrace(nil))
	got := FormatStackTrace([]StackFrame{
		{Class: "a.B", Method: "inner", Line: -1},
		{Class: "a.B", Method: "outer", Line: -1},
	})
	require.Equal(t, "Stack trace:\n  at a.B.inner\n  at a.B.outer\n", got)
}

func TestAnalysisError(t *testing.T) {
	err := AnalysisErrorf("a/B.f()V", 4, "unsupported opcode %s", "jsr")
	require.Equal(t, "analysis error: a/B.f()V at 4: unsupported opcode jsr", err.Error())
	err.Index = -1
	require.Equal(t, "analysis error: a/B.f()V: unsupported opcode jsr", err.Error())
}

func TestExecutionErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewExecutionError(ErrFault, "call failed", nil).WithCause(cause)
	require.True(t, errors.Is(err, cause))
	require.Equal(t, "execution error: call failed: boom", err.Error())

	wrapped := fmt.Errorf("outer: %w", err)
	got, ok := AsExecution(wrapped)
	require.True(t, ok)
	require.Same(t, err, got)
}

func TestFriendlyErrorMessage(t *testing.T) {
	err := ExecutionErrorf(ErrUnsupported, []StackFrame{{Class: "a.B", Method: "f", Line: -1}},
		"could not invoke %s", "a/B f ()V")
	msg := err.FriendlyErrorMessage()
	require.True(t, strings.HasPrefix(msg, "unsupported operation: could not invoke a/B f ()V\n"))
	require.Contains(t, msg, "at a.B.f")
}

func TestAbortIsNeverWrapped(t *testing.T) {
	abort := Abort("key")
	require.True(t, IsAbort(abort))
	require.Same(t, abort, Wrap(abort, nil, "ignored").(*AbortSignal))

	nested := fmt.Errorf("provider: %w", abort)
	require.True(t, IsAbort(nested))
	got, ok := AsAbort(nested)
	require.True(t, ok)
	require.Equal(t, "key", got.Value)
}

func TestWrap(t *testing.T) {
	require.Nil(t, Wrap(nil, nil, "x"))

	exec := NewExecutionError(ErrLimit, "too deep", nil)
	require.Same(t, exec, Wrap(exec, nil, "x").(*ExecutionError))

	plain := errors.New("bad")
	wrapped := Wrap(plain, nil, "invoking %s", "f")
	e, ok := AsExecution(wrapped)
	require.True(t, ok)
	require.Equal(t, ErrFault, e.Kind)
	require.Equal(t, "invoking f", e.Message)
	require.True(t, errors.Is(wrapped, plain))
}

func TestFormatter(t *testing.T) {
	f := NewFormatter(false)
	out := f.Format(ExecutionErrorf(ErrArithmetic, []StackFrame{{Class: "a.B", Method: "f", Line: -1}}, "/ by zero"))
	require.Equal(t, "arithmetic error: / by zero\n   = stack trace:\n     at a.B.f\n", out)

	out = f.Format(AnalysisErrorf("a/B.f()V", 2, "jsr"))
	require.Equal(t, "analysis error: jsr\n  --> a/B.f()V @2\n", out)

	var merr *multierror.Error
	merr = multierror.Append(merr, errors.New("one"), errors.New("two"))
	out = f.Format(merr)
	require.Contains(t, out, "error[1/2]: one\n")
	require.Contains(t, out, "error[2/2]: two\n")
	require.True(t, strings.HasSuffix(out, "found 2 errors\n"))
}

func TestFormatterColor(t *testing.T) {
	out := NewFormatter(true).Format(errors.New("plain"))
	require.Contains(t, out, "\x1b[")
	require.Contains(t, out, "plain")
}
