package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies every failure the front end can report.
type ErrorKind string

const (
	LexError                ErrorKind = "LexError"
	SyntaxError             ErrorKind = "SyntaxError"
	UndefinedIdentifier     ErrorKind = "UndefinedIdentifier"
	InvalidAssignmentTarget ErrorKind = "InvalidAssignmentTarget"
)

// Semantic reports whether errors of this kind are collected by the analyzer
// rather than aborting the pipeline.
func (k ErrorKind) Semantic() bool {
	return k == UndefinedIdentifier || k == InvalidAssignmentTarget
}

// Error is the single error record of the front end.
//
//	print(y);
//	      ^  Error{Kind: UndefinedIdentifier, Fragment: "y", Pos: 1:7}
type Error struct {
	Kind    ErrorKind
	Message string
	Pos     Position
	// Fragment is the offending source text: the unmatched characters for a
	// LexError, the unexpected token for a SyntaxError, the identifier name
	// for semantic errors.
	Fragment string
}

func (e *Error) Error() string {
	if !e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Message)
}

// FormatWithContext renders the error with the offending source line and a
// caret under the error column.
func (e *Error) FormatWithContext(source string) string {
	if source == "" || !e.Pos.IsValid() {
		return e.Error()
	}
	lines := strings.Split(source, "\n")
	if e.Pos.Line > len(lines) {
		return e.Error()
	}
	line := strings.TrimRight(lines[e.Pos.Line-1], "\r")
	col := e.Pos.Column
	if col < 1 {
		col = 1
	}
	if n := len([]rune(line)) + 1; col > n {
		col = n
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", e.Kind, e.Message)
	fmt.Fprintf(&sb, "  --> line %d:%d\n", e.Pos.Line, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", e.Pos.Line, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))
	return sb.String()
}

func newError(kind ErrorKind, pos Position, fragment, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos, Fragment: fragment}
}

// ErrorList is an ordered collection of errors, itself usable as an error.
type ErrorList []*Error

func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", el[0].Error(), len(el)-1)
}

// FormatWithContext renders every error with its source line.
func (el ErrorList) FormatWithContext(source string) string {
	var sb strings.Builder
	for i, e := range el {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.FormatWithContext(source))
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (el ErrorList) Unwrap() []error {
	out := make([]error, len(el))
	for i, e := range el {
		out[i] = e
	}
	return out
}

// Count returns how many errors of the given kind the list holds.
func (el ErrorList) Count(kind ErrorKind) int {
	n := 0
	for _, e := range el {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// IsKind reports whether err is, or wraps, an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == kind {
			return true
		}
	}
	var el ErrorList
	if errors.As(err, &el) {
		return el.Count(kind) > 0
	}
	return false
}
