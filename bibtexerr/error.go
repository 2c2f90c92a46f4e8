// Package bibtexerr defines the unified error taxonomy (§7): the reader and
// driver report their errors as a *bibtexerr.Error carrying a Kind and,
// where available, a source position or the offending token, so a caller
// can report file-and-offset diagnostics. The scanner's primitives return
// *scanner.Error, which the reader converts; emit.ValidateIdentifiers
// returns *ident.Error; emit.WriteValidated wraps validation failures as Io
// errors, while formatter and sink errors from emit.Write and
// emit.WriteValidated are returned unwrapped.
package bibtexerr

import (
	"fmt"

	"github.com/bibparse/bibtex/token"
)

// Kind is the top-level error category.
type Kind int

const (
	// Syntax is a grammar violation caught by the scanner or reader.
	Syntax Kind = iota
	// Macro is an unresolved variable reference reached a stage that
	// demanded a string.
	Macro
	// Utf8 is a byte slice requested as text that was not valid UTF-8.
	Utf8
	// Parse is a failure interpreting text as a scalar.
	Parse
	// Shape is a consumer-requested structure that the data cannot satisfy.
	Shape
	// Io is an underlying byte-sink failure (emitter only).
	Io
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Macro:
		return "macro"
	case Utf8:
		return "utf8"
	case Parse:
		return "parse"
	case Shape:
		return "shape"
	case Io:
		return "io"
	default:
		return "unknown"
	}
}

// SyntaxCode enumerates the fine-grained syntax error codes of §7.
type SyntaxCode int

const (
	_ SyntaxCode = iota
	CodeEmpty
	CodeInvalidChar
	CodeStartsWithDigit
	CodeExtraClosingBracket
	CodeExtraOpeningBracket
	CodeUnterminatedTextToken
	CodeUnexpectedClosingBracket
	CodeExpectedFieldSeparator
	CodeExpectedEntryHeader
	CodeBracketMismatch
	CodeUnexpectedEof
	CodeDoubleComma
)

func (c SyntaxCode) String() string {
	switch c {
	case CodeEmpty:
		return "Empty"
	case CodeInvalidChar:
		return "InvalidChar"
	case CodeStartsWithDigit:
		return "StartsWithDigit"
	case CodeExtraClosingBracket:
		return "ExtraClosingBracket"
	case CodeExtraOpeningBracket:
		return "ExtraOpeningBracket"
	case CodeUnterminatedTextToken:
		return "UnterminatedTextToken"
	case CodeUnexpectedClosingBracket:
		return "UnexpectedClosingBracket"
	case CodeExpectedFieldSeparator:
		return "ExpectedFieldSeparator"
	case CodeExpectedEntryHeader:
		return "ExpectedEntryHeader"
	case CodeBracketMismatch:
		return "BracketMismatch"
	case CodeUnexpectedEof:
		return "UnexpectedEof"
	case CodeDoubleComma:
		return "DoubleComma"
	default:
		return "Unknown"
	}
}

// Error is the unified error type of the reader and driver.
type Error struct {
	Kind Kind

	// Syntax-specific.
	SyntaxCode SyntaxCode
	Pos        token.Pos

	// Macro-specific: the unresolved variable name.
	Variable string

	// Utf8-specific: a short description of where the invalid bytes were
	// found (e.g. "field value", "citation key").
	Where string

	// Parse-specific: the scalar kind being parsed and the offending text.
	ScalarKind string
	Text       string

	// Shape-specific free-form message.
	Message string

	// Io wraps the underlying sink error.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case Syntax:
		if e.Pos.IsValid() {
			return fmt.Sprintf("bibtex: syntax error: %s at %s", e.SyntaxCode, e.Pos)
		}
		return fmt.Sprintf("bibtex: syntax error: %s", e.SyntaxCode)
	case Macro:
		return fmt.Sprintf("bibtex: unresolved variable %q", e.Variable)
	case Utf8:
		return fmt.Sprintf("bibtex: invalid UTF-8 in %s", e.Where)
	case Parse:
		return fmt.Sprintf("bibtex: cannot parse %q as %s", e.Text, e.ScalarKind)
	case Shape:
		return fmt.Sprintf("bibtex: shape mismatch: %s", e.Message)
	case Io:
		return fmt.Sprintf("bibtex: io error: %v", e.Err)
	default:
		return "bibtex: error"
	}
}

func (e *Error) Unwrap() error {
	if e.Kind == Io {
		return e.Err
	}
	return nil
}

// NewSyntax builds a Syntax error.
func NewSyntax(code SyntaxCode, pos token.Pos) *Error {
	return &Error{Kind: Syntax, SyntaxCode: code, Pos: pos}
}

// NewMacro builds a Macro error for an unresolved variable.
func NewMacro(name string) *Error {
	return &Error{Kind: Macro, Variable: name}
}

// NewUtf8 builds a Utf8 error.
func NewUtf8(where string) *Error {
	return &Error{Kind: Utf8, Where: where}
}

// NewParse builds a Parse error.
func NewParse(scalarKind, text string) *Error {
	return &Error{Kind: Parse, ScalarKind: scalarKind, Text: text}
}

// NewShape builds a Shape error.
func NewShape(format string, args ...interface{}) *Error {
	return &Error{Kind: Shape, Message: fmt.Sprintf(format, args...)}
}

// NewIo wraps an underlying sink error.
func NewIo(err error) *Error {
	return &Error{Kind: Io, Err: err}
}
