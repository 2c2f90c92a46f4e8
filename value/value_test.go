package value

import "testing"

func TestConcatSingleToken(t *testing.T) {
	tok := NewText([]byte("hello"))
	if got := Concat([]Token{tok}); got != "hello" {
		t.Errorf("Concat = %q, want %q", got, "hello")
	}
}

func TestConcatMultipleTokens(t *testing.T) {
	toks := []Token{NewText([]byte("Auth")), NewText([]byte("or")), NewText([]byte(" Two"))}
	if got := Concat(toks); got != "Author Two" {
		t.Errorf("Concat = %q, want %q", got, "Author Two")
	}
}

func TestNewVariable(t *testing.T) {
	tok := NewVariable([]byte("month"))
	if tok.Kind != Variable || tok.Text() != "month" {
		t.Errorf("tok = %+v", tok)
	}
}
