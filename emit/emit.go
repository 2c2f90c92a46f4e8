// Package emit implements the bibtex emitter (§4.5): a pluggable Formatter
// strategy writes a driver.RawEntry stream to an arbitrary byte sink, with
// a default Pretty strategy, a whitespace-stripping Compact strategy, and a
// WriteValidated entry point that checks identifiers and text tokens before
// delegating to a Formatter.
//
// The Formatter interface mirrors the teacher's render.ExprRenderer: one
// small method per syntactic position, so a caller can override a single
// position (e.g. how a comma is written) without reimplementing the whole
// strategy, the same way render.TextRenderer's textOverrides map works.
package emit

import (
	"io"

	"github.com/bibparse/bibtex/driver"
	"github.com/bibparse/bibtex/ident"
	"github.com/bibparse/bibtex/value"
)

// Formatter renders the syntactic positions of an entry stream to a byte
// sink. Each method corresponds to one production of the grammar in spec
// §6; a concrete Formatter decides the literal bytes (or lack thereof) for
// each position.
type Formatter interface {
	EntryTypePrefix(w io.Writer, kind string) error
	BodyOpen(w io.Writer) error
	EntryKey(w io.Writer, key string) error
	FieldStart(w io.Writer, index int) error
	FieldKey(w io.Writer, key string) error
	FieldSeparator(w io.Writer) error
	TokenSeparator(w io.Writer) error
	BracketedToken(w io.Writer, text string) error
	QuotedToken(w io.Writer, text string) error
	VariableToken(w io.Writer, name string) error
	FieldEnd(w io.Writer, isLast bool) error
	BodyEnd(w io.Writer) error
	EntrySeparator(w io.Writer) error
	DocumentEnd(w io.Writer) error
}

// Write renders entries to w using f, in document order. Every RawEntry's
// text tokens are written bracketed ({...}); the quoted ("..." ) form is
// never chosen on output, since bracketed form always round-trips and the
// driver does not track which source form a token originally used.
func Write(w io.Writer, f Formatter, entries []driver.RawEntry) error {
	for i, e := range entries {
		if i > 0 {
			if err := f.EntrySeparator(w); err != nil {
				return err
			}
		}
		if err := writeEntry(w, f, e); err != nil {
			return err
		}
	}
	return f.DocumentEnd(w)
}

func writeEntry(w io.Writer, f Formatter, e driver.RawEntry) error {
	switch kindName(e) {
	case "comment":
		if err := f.EntryTypePrefix(w, "comment"); err != nil {
			return err
		}
		if err := f.BodyOpen(w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, string(e.Text)); err != nil {
			return err
		}
		return f.BodyEnd(w)
	case "preamble":
		if err := f.EntryTypePrefix(w, "preamble"); err != nil {
			return err
		}
		if err := f.BodyOpen(w); err != nil {
			return err
		}
		if err := writeValue(w, f, e.Value); err != nil {
			return err
		}
		return f.BodyEnd(w)
	case "string":
		if err := f.EntryTypePrefix(w, "string"); err != nil {
			return err
		}
		if err := f.BodyOpen(w); err != nil {
			return err
		}
		if e.Name != nil {
			if err := f.FieldKey(w, string(e.Name)); err != nil {
				return err
			}
			if err := f.FieldSeparator(w); err != nil {
				return err
			}
			if err := writeValue(w, f, e.Value); err != nil {
				return err
			}
		}
		return f.BodyEnd(w)
	default:
		if err := f.EntryTypePrefix(w, string(e.TypeName)); err != nil {
			return err
		}
		if err := f.BodyOpen(w); err != nil {
			return err
		}
		if err := f.EntryKey(w, string(e.Key)); err != nil {
			return err
		}
		for i, field := range e.Fields {
			if err := f.FieldStart(w, i); err != nil {
				return err
			}
			if err := f.FieldKey(w, string(field.Key)); err != nil {
				return err
			}
			if err := f.FieldSeparator(w); err != nil {
				return err
			}
			if err := writeValue(w, f, field.Value); err != nil {
				return err
			}
			if err := f.FieldEnd(w, i == len(e.Fields)-1); err != nil {
				return err
			}
		}
		return f.BodyEnd(w)
	}
}

func writeValue(w io.Writer, f Formatter, toks []value.Token) error {
	for i, t := range toks {
		if i > 0 {
			if err := f.TokenSeparator(w); err != nil {
				return err
			}
		}
		var err error
		switch t.Kind {
		case value.Variable:
			err = f.VariableToken(w, t.Text())
		default:
			err = f.BracketedToken(w, t.Text())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// kindName maps a driver.RawEntry's Kind to the lowercase keyword used in
// EntryTypePrefix, without importing the reader package's Kind constants
// directly (driver.RawEntry.Kind is a reader.Kind, so calling its String
// method is enough to stay decoupled from the numeric values).
func kindName(e driver.RawEntry) string {
	return e.Kind.String()
}

// ValidateIdentifiers checks an entry's type, key, field keys, and variable
// names against the identifier rules (ident.ValidateIdentifier /
// ValidateVariable), and its text tokens for balanced braces
// (ident.IsBalanced), mirroring Kingsford-Group-biblint's
// bib.CheckBraceBalance prefix-counting algorithm generalized to operate
// here over driver.RawEntry instead of a raw string.
func ValidateIdentifiers(e driver.RawEntry) error {
	check := func(b []byte) error {
		if b == nil {
			return nil
		}
		return ident.ValidateIdentifier(b)
	}
	if err := check(e.TypeName); err != nil {
		return err
	}
	if err := check(e.Key); err != nil {
		return err
	}
	if e.Name != nil {
		if err := ident.ValidateVariable(e.Name); err != nil {
			return err
		}
	}
	for _, field := range e.Fields {
		if err := check(field.Key); err != nil {
			return err
		}
		if err := validateTokens(field.Value); err != nil {
			return err
		}
	}
	if err := validateTokens(e.Value); err != nil {
		return err
	}
	return nil
}

func validateTokens(toks []value.Token) error {
	for _, t := range toks {
		if t.Kind == value.Variable {
			if err := ident.ValidateVariable(t.Bytes); err != nil {
				return err
			}
			continue
		}
		if !ident.IsBalanced(t.Bytes) {
			code := ident.ExtraOpeningBrace
			depth := 0
			for _, c := range t.Bytes {
				if c == '{' {
					depth++
				} else if c == '}' {
					depth--
					if depth < 0 {
						code = ident.ExtraClosingBrace
						break
					}
				}
			}
			return &ident.Error{Code: code, Offset: -1}
		}
	}
	return nil
}
