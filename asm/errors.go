package asm

import (
	"fmt"
	"strings"
)

// SyntaxError reports a malformed line of assembler source.
type SyntaxError struct {
	File       string
	Line       int // 1-based
	Message    string
	SourceCode string
}

func (e *SyntaxError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("syntax error: %s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("syntax error: line %d: %s", e.Line, e.Message)
}

// FriendlyErrorMessage returns the error with the offending source line.
func (e *SyntaxError) FriendlyErrorMessage() string {
	var b strings.Builder
	b.WriteString(e.Error())
	b.WriteString("\n")
	if e.SourceCode != "" {
		b.WriteString(fmt.Sprintf(" %4d | %s\n", e.Line, strings.TrimRight(e.SourceCode, " \t")))
	}
	return b.String()
}
