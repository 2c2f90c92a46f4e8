// Package value defines the token representation shared by the reader, the
// macro dictionary, and the deserialization driver: a value expression is a
// sequence of Tokens, each either literal text or an unresolved variable
// reference (§3, "Value token").
package value

// Kind distinguishes the two constituents of a value expression.
type Kind int

const (
	// Text is a literal token: the content of a {...}, "...", or digit-run
	// form. Brace-balance, when applicable, was already checked by the
	// scanner that produced it.
	Text Kind = iota
	// Variable is an unresolved macro reference, by name. Token.Bytes holds
	// the identifier as written in the source (case as written; lookups against
	// the macro dictionary fold case).
	Variable
)

// Token is one constituent of a value expression (§3, §6 grammar rule
// `token`). Bytes is always populated; for a Variable token, Bytes holds the
// variable name (so Variable tokens need no separate field for the common
// case of re-emitting the reference unresolved).
type Token struct {
	Kind  Kind
	Bytes []byte
}

// Text returns the token's bytes as a string. It performs no UTF-8
// validation; callers working with raw, unvalidated bytes must check
// validity themselves (see ident.ValidUTF8) before trusting the result as
// text.
func (t Token) Text() string { return string(t.Bytes) }

// NewText constructs a literal text token.
func NewText(b []byte) Token { return Token{Kind: Text, Bytes: b} }

// NewVariable constructs an unresolved variable-reference token.
func NewVariable(name []byte) Token { return Token{Kind: Variable, Bytes: name} }

// Concat concatenates the text of every token in toks. It is the caller's
// responsibility to ensure all tokens are Kind == Text (e.g. by resolving
// macros first); a Variable token still present contributes its raw name,
// which is virtually always a bug in the caller rather than desired output,
// so callers needing correctness should resolve before concatenating.
func Concat(toks []Token) string {
	if len(toks) == 1 {
		return toks[0].Text()
	}
	n := 0
	for _, t := range toks {
		n += len(t.Bytes)
	}
	buf := make([]byte, 0, n)
	for _, t := range toks {
		buf = append(buf, t.Bytes...)
	}
	return string(buf)
}
