// Package diagnostics formats lex/parse/runtime errors uniformly so every
// message a user sees carries the offending token's line and column.
package diagnostics

import (
	"fmt"

	"github.com/vesperlang/vesper/internal/token"
)

// Diagnostic is a single located error message.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// New builds a Diagnostic anchored at tok's source position.
func New(tok token.Token, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Line:    tok.Line,
		Column:  tok.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

// AtLineCol builds a Diagnostic at an explicit position, for errors raised
// away from a specific token (e.g. the evaluator).
func AtLineCol(line, column int, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}
