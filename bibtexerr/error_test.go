package bibtexerr

import (
	"errors"
	"testing"

	"github.com/bibparse/bibtex/token"
)

func TestSyntaxErrorMessage(t *testing.T) {
	err := NewSyntax(CodeDoubleComma, token.Pos(5))
	if err.Kind != Syntax {
		t.Errorf("Kind = %v, want Syntax", err.Kind)
	}
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}
}

func TestMacroError(t *testing.T) {
	err := NewMacro("foo")
	if err.Variable != "foo" {
		t.Errorf("Variable = %q, want %q", err.Variable, "foo")
	}
}

func TestIoErrorUnwraps(t *testing.T) {
	inner := errors.New("disk full")
	err := NewIo(inner)
	if !errors.Is(err, inner) {
		t.Error("Io error should unwrap to the underlying error")
	}
}

func TestOtherKindsDoNotUnwrap(t *testing.T) {
	err := NewParse("integer", "abc")
	if errors.Unwrap(err) != nil {
		t.Error("non-Io errors should not unwrap")
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		Syntax: "syntax",
		Macro:  "macro",
		Utf8:   "utf8",
		Parse:  "parse",
		Shape:  "shape",
		Io:     "io",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
