package scanner

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIdentifier(t *testing.T) {
	s := New([]byte("article, rest"))
	pos, lit, err := s.Identifier(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(lit) != "article" {
		t.Errorf("lit = %q, want %q", lit, "article")
	}
	if pos != 7 {
		t.Errorf("pos = %d, want 7", pos)
	}
}

func TestIdentifierEmpty(t *testing.T) {
	s := New([]byte(",rest"))
	_, _, err := s.Identifier(0)
	if err == nil {
		t.Fatal("expected error for empty identifier")
	}
	if se := err.(*Error); se.Code != Empty {
		t.Errorf("code = %v, want Empty", se.Code)
	}
}

func TestDigitRun(t *testing.T) {
	s := New([]byte("2014 }"))
	pos, lit, err := s.DigitRun(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(lit) != "2014" || pos != 4 {
		t.Errorf("got (%d, %q), want (4, \"2014\")", pos, lit)
	}
}

func TestBalanced(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		wantN int
	}{
		{"simple", "abc}", "abc", 4},
		{"nested", "a{b}c}", "a{b}c", 6},
		{"empty", "}", "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New([]byte(tt.in))
			pos, inner, err := s.Balanced(0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(inner) != tt.want || pos != tt.wantN {
				t.Errorf("got (%d, %q), want (%d, %q)", pos, inner, tt.wantN, tt.want)
			}
		})
	}
}

func TestBalancedUnterminated(t *testing.T) {
	s := New([]byte("a{b"))
	_, _, err := s.Balanced(0)
	if err == nil {
		t.Fatal("expected error")
	}
	if se := err.(*Error); se.Code != UnterminatedTextToken {
		t.Errorf("code = %v, want UnterminatedTextToken", se.Code)
	}
}

func TestProtectedUntilQuote(t *testing.T) {
	// "{"}"} -- the quote inside braces is protected, the following '"' closes.
	s := New([]byte(`{"}" rest`))
	pos, inner, err := s.ProtectedUntil(0, 0, '"')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(inner) != `{"}` {
		t.Errorf("inner = %q, want %q", inner, `{"}`)
	}
	if pos != 4 {
		t.Errorf("pos = %d, want 4", pos)
	}
}

func TestProtectedUntilParen(t *testing.T) {
	// Spec §8 scenario 3: @comment(contains (parens) and {braces with )})
	// payload is "contains (parens) and {braces with )}", after the opening
	// '(' has already been consumed.
	in := `contains (parens) and {braces with )})`
	s := New([]byte(in))
	pos, inner, err := s.ProtectedUntil(0, '(', ')')
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `contains (parens) and {braces with )}`
	if diff := cmp.Diff(want, string(inner)); diff != "" {
		t.Errorf("inner mismatch (-want +got):\n%s", diff)
	}
	if pos != len(in) {
		t.Errorf("pos = %d, want %d (full input consumed)", pos, len(in))
	}
}

func TestProtectedUntilExtraClosingBrace(t *testing.T) {
	s := New([]byte(`a}b"`))
	_, _, err := s.ProtectedUntil(0, 0, '"')
	if err == nil {
		t.Fatal("expected error")
	}
	if se := err.(*Error); se.Code != ExtraClosingBrace {
		t.Errorf("code = %v, want ExtraClosingBrace", se.Code)
	}
}

func TestNextEntryOrEOF(t *testing.T) {
	s := New([]byte("% leading comment\n@article{k}"))
	pos, ok := s.NextEntryOrEOF(0)
	if !ok {
		t.Fatal("expected to find an entry")
	}
	if s.Byte(pos-1) != '@' {
		t.Errorf("byte before pos should be '@'")
	}
}

func TestNextEntryOrEOFNone(t *testing.T) {
	s := New([]byte("just junk, no entries"))
	pos, ok := s.NextEntryOrEOF(0)
	if ok {
		t.Fatal("expected no entry")
	}
	if pos != s.Len() {
		t.Errorf("pos = %d, want %d", pos, s.Len())
	}
}

func TestSkipIntraEntry(t *testing.T) {
	s := New([]byte("  \t% comment\n  x"))
	pos := s.SkipIntraEntry(0)
	if s.Byte(pos) != 'x' {
		t.Errorf("byte at pos = %q, want 'x'", s.Byte(pos))
	}
}

func TestVerticalTabNotSpace(t *testing.T) {
	if isSpace('\v') {
		t.Error("vertical tab must not be treated as whitespace (§6)")
	}
}
