package errz

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
)

// Formatter renders errors for terminal display.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

var (
	colorErrorBold = color.New(color.FgHiRed, color.Bold)
	colorError     = color.New(color.FgRed)
	colorLocation  = color.New(color.FgCyan)
	colorPipe      = color.New(color.FgHiBlack)
	colorNote      = color.New(color.FgHiBlue)
)

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

// Format renders a single error. Aggregated errors are numbered.
func (f *Formatter) Format(err error) string {
	if merr, ok := err.(*multierror.Error); ok {
		return f.FormatMultiple(merr.Errors)
	}
	return f.format(err, "")
}

func (f *Formatter) format(err error, prefix string) string {
	var b strings.Builder
	label := "error"
	message := err.Error()
	var location string
	var stack []StackFrame

	switch e := err.(type) {
	case *AnalysisError:
		label = "analysis error"
		message = e.Message
		location = e.Method
		if e.Index >= 0 {
			location = fmt.Sprintf("%s @%d", e.Method, e.Index)
		}
	case *ExecutionError:
		label = e.Kind.String()
		message = e.Message
		if e.Cause != nil {
			message += ": " + e.Cause.Error()
		}
		stack = e.Stack
	case *AbortSignal:
		label = "aborted"
		message = fmt.Sprintf("%v", e.Value)
	}

	b.WriteString(f.paint(colorErrorBold, label))
	if prefix != "" {
		b.WriteString(f.paint(colorPipe, "["+prefix+"]"))
	}
	b.WriteString(f.paint(colorError, ": "))
	b.WriteString(message)
	b.WriteString("\n")

	if location != "" {
		b.WriteString("  ")
		b.WriteString(f.paint(colorLocation, "--> "+location))
		b.WriteString("\n")
	}
	if len(stack) > 0 {
		b.WriteString(f.paint(colorPipe, "   = "))
		b.WriteString(f.paint(colorNote, "stack trace:"))
		b.WriteString("\n")
		for _, frame := range stack {
			b.WriteString("     ")
			b.WriteString(frame.String())
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatMultiple formats multiple errors with consistent styling.
func (f *Formatter) FormatMultiple(errs []error) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return f.format(errs[0], "")
	}
	var b strings.Builder
	total := len(errs)
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.format(err, fmt.Sprintf("%d/%d", i+1, total)))
	}
	b.WriteString("\n")
	b.WriteString(f.paint(colorErrorBold, fmt.Sprintf("found %d errors", total)))
	b.WriteString("\n")
	return b.String()
}
