package emit

import (
	"fmt"
	"io"

	"github.com/bibparse/bibtex/bibtexerr"
	"github.com/bibparse/bibtex/driver"
)

// Pretty is the default formatter (§4.5): entries separated by a blank
// line, each body spread across multiple lines with two-space indentation,
// ` = ` as the field separator, ` # ` as the token separator, and a
// trailing comma after the last field.
type Pretty struct{}

func (Pretty) EntryTypePrefix(w io.Writer, kind string) error {
	_, err := fmt.Fprintf(w, "@%s", kind)
	return err
}

func (Pretty) BodyOpen(w io.Writer) error {
	_, err := io.WriteString(w, "{\n")
	return err
}

func (Pretty) EntryKey(w io.Writer, key string) error {
	_, err := fmt.Fprintf(w, "  %s", key)
	return err
}

func (Pretty) FieldStart(w io.Writer, index int) error {
	_, err := io.WriteString(w, ",\n  ")
	return err
}

func (Pretty) FieldKey(w io.Writer, key string) error {
	_, err := io.WriteString(w, key)
	return err
}

func (Pretty) FieldSeparator(w io.Writer) error {
	_, err := io.WriteString(w, " = ")
	return err
}

func (Pretty) TokenSeparator(w io.Writer) error {
	_, err := io.WriteString(w, " # ")
	return err
}

func (Pretty) BracketedToken(w io.Writer, text string) error {
	_, err := fmt.Fprintf(w, "{%s}", text)
	return err
}

func (Pretty) QuotedToken(w io.Writer, text string) error {
	_, err := fmt.Fprintf(w, "%q", text)
	return err
}

func (Pretty) VariableToken(w io.Writer, name string) error {
	_, err := io.WriteString(w, name)
	return err
}

func (Pretty) FieldEnd(w io.Writer, isLast bool) error {
	if isLast {
		_, err := io.WriteString(w, ",\n")
		return err
	}
	return nil
}

func (Pretty) BodyEnd(w io.Writer) error {
	_, err := io.WriteString(w, "}\n")
	return err
}

func (Pretty) EntrySeparator(w io.Writer) error {
	_, err := io.WriteString(w, "\n")
	return err
}

func (Pretty) DocumentEnd(io.Writer) error { return nil }

// Compact removes all discretionary whitespace: no blank lines between
// entries, no indentation, a bare `=`/`#` separator, and no trailing comma.
type Compact struct{}

func (Compact) EntryTypePrefix(w io.Writer, kind string) error {
	_, err := fmt.Fprintf(w, "@%s", kind)
	return err
}

func (Compact) BodyOpen(w io.Writer) error {
	_, err := io.WriteString(w, "{")
	return err
}

func (Compact) EntryKey(w io.Writer, key string) error {
	_, err := io.WriteString(w, key)
	return err
}

func (Compact) FieldStart(w io.Writer, index int) error {
	_, err := io.WriteString(w, ",")
	return err
}

func (Compact) FieldKey(w io.Writer, key string) error {
	_, err := io.WriteString(w, key)
	return err
}

func (Compact) FieldSeparator(w io.Writer) error {
	_, err := io.WriteString(w, "=")
	return err
}

func (Compact) TokenSeparator(w io.Writer) error {
	_, err := io.WriteString(w, "#")
	return err
}

func (Compact) BracketedToken(w io.Writer, text string) error {
	_, err := fmt.Fprintf(w, "{%s}", text)
	return err
}

func (Compact) QuotedToken(w io.Writer, text string) error {
	_, err := fmt.Fprintf(w, "%q", text)
	return err
}

func (Compact) VariableToken(w io.Writer, name string) error {
	_, err := io.WriteString(w, name)
	return err
}

func (Compact) FieldEnd(io.Writer, bool) error { return nil }

func (Compact) BodyEnd(w io.Writer) error {
	_, err := io.WriteString(w, "}")
	return err
}

func (Compact) EntrySeparator(io.Writer) error { return nil }

func (Compact) DocumentEnd(io.Writer) error { return nil }

// WriteValidated renders entries like Write, but checks each entry against
// ValidateIdentifiers before writing it, surfacing a violation as an Io
// error (§4.5, "returning an I/O error (invalid data) on violation") rather
// than the raw ident validation error.
func WriteValidated(w io.Writer, f Formatter, entries []driver.RawEntry) error {
	for i, e := range entries {
		if err := ValidateIdentifiers(e); err != nil {
			return bibtexerr.NewIo(err)
		}
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
