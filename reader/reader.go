// Package reader implements the bibtex reader / state machine (§4.2): it
// wraps a scanner.Scanner with a small per-entry state and exposes
// high-level verbs (NextEntry, OpenBody, ReadCitationKey, ...) that compose
// scanner primitives into entries, enforcing the trailing-comma and
// bracket-matching rules the grammar in spec §6 describes. It also exposes
// Ignore* mirrors of the materializing verbs that discard content while
// still enforcing syntax, so that driver.Ignore mode never silently
// swallows a later malformed entry (§8, "ignoring is syntactically
// faithful").
//
// Reader works directly on a byte buffer; two constructors, NewBytes and
// NewText, differ only in whether TextOf() revalidates UTF-8 on the way out
// (§3, "input buffer duality").
package reader

import (
	"strings"

	"github.com/bibparse/bibtex/bibtexerr"
	"github.com/bibparse/bibtex/ident"
	"github.com/bibparse/bibtex/scanner"
	"github.com/bibparse/bibtex/token"
	"github.com/bibparse/bibtex/value"
)

// Kind distinguishes the four entry flavors of §3.
type Kind int

const (
	Regular Kind = iota
	Abbrev       // @string
	Comment
	Preamble
)

func (k Kind) String() string {
	switch k {
	case Regular:
		return "regular"
	case Abbrev:
		return "string"
	case Comment:
		return "comment"
	case Preamble:
		return "preamble"
	default:
		return "unknown"
	}
}

// Header describes an entry's opening "@type" token, before its body has
// been read.
type Header struct {
	Kind     Kind
	TypeName []byte // the entry-type identifier as written; meaningful for Regular
	Pos      token.Pos
}

// Reader drives a scanner.Scanner through the per-entry grammar of §6.
type Reader struct {
	scn      *scanner.Scanner
	buf      []byte
	pos      int
	textMode bool
	file     *token.File
}

func newReader(buf []byte, textMode bool) *Reader {
	f := token.NewFile(len(buf))
	for i, b := range buf {
		if b == '\n' {
			f.AddLine(i + 1)
		}
	}
	return &Reader{scn: scanner.New(buf), buf: buf, textMode: textMode, file: f}
}

// NewBytes creates a Reader over a raw byte buffer with no UTF-8 guarantee.
func NewBytes(buf []byte) *Reader { return newReader(buf, false) }

// NewText creates a Reader over a buffer guaranteed to be well-formed UTF-8.
func NewText(s string) *Reader { return newReader([]byte(s), true) }

// Pos returns the current cursor position.
func (r *Reader) Pos() token.Pos { return r.file.Pos(r.pos) }

// Position expands a Pos into line/column form using this reader's buffer.
func (r *Reader) Position(p token.Pos) token.Position { return r.file.Position(p) }

// TextOf converts a byte slice borrowed from this reader's buffer into a
// string. In text mode no validation is performed, since the whole input
// buffer was already guaranteed UTF-8 and all scanner cuts occur at ASCII
// byte boundaries. In bytes mode it validates UTF-8 and returns a Utf8
// error tagged with where if invalid.
func (r *Reader) TextOf(b []byte, where string) (string, error) {
	if r.textMode {
		return string(b), nil
	}
	if !ident.ValidUTF8(b) {
		return "", bibtexerr.NewUtf8(where)
	}
	return string(b), nil
}

func (r *Reader) err(code bibtexerr.SyntaxCode, pos int) error {
	return bibtexerr.NewSyntax(code, r.file.Pos(pos))
}

func syntaxFromScan(err error, fallback bibtexerr.SyntaxCode, file *token.File) error {
	se, ok := err.(*scanner.Error)
	if !ok {
		return err
	}
	code := fallback
	switch se.Code {
	case scanner.Empty:
		code = bibtexerr.CodeEmpty
	case scanner.InvalidChar:
		code = bibtexerr.CodeInvalidChar
	case scanner.StartsWithDigit:
		code = bibtexerr.CodeStartsWithDigit
	case scanner.ExtraOpeningBrace:
		code = bibtexerr.CodeExtraOpeningBracket
	case scanner.ExtraClosingBrace:
		code = bibtexerr.CodeExtraClosingBracket
	case scanner.UnterminatedTextToken:
		code = bibtexerr.CodeUnterminatedTextToken
	case scanner.UnexpectedClosingBracket:
		code = bibtexerr.CodeUnexpectedClosingBracket
	case scanner.UnexpectedEOF:
		code = bibtexerr.CodeUnexpectedEof
	}
	return bibtexerr.NewSyntax(code, file.Pos(se.Offset))
}

// NextEntry advances to the next '@' and classifies its entry-type keyword.
// It returns ok == false at a clean end of input.
func (r *Reader) NextEntry() (Header, bool, error) {
	r.pos = r.scn.SkipIntraEntry(r.pos)
	newPos, found := r.scn.NextEntryOrEOF(r.pos)
	r.pos = newPos
	if !found {
		return Header{}, false, nil
	}
	start := r.pos
	r.pos = r.scn.SkipIntraEntry(r.pos)
	newPos, lit, err := r.scn.Identifier(r.pos)
	if err != nil {
		return Header{}, false, syntaxFromScan(err, bibtexerr.CodeExpectedEntryHeader, r.file)
	}
	if verr := ident.ValidateVariable(lit); verr != nil {
		return Header{}, false, r.err(bibtexerr.CodeStartsWithDigit, r.pos)
	}
	r.pos = newPos

	hdr := Header{Pos: r.file.Pos(start)}
	switch {
	case strings.EqualFold(string(lit), "string"):
		hdr.Kind = Abbrev
	case strings.EqualFold(string(lit), "comment"):
		hdr.Kind = Comment
	case strings.EqualFold(string(lit), "preamble"):
		hdr.Kind = Preamble
	default:
		hdr.Kind = Regular
		hdr.TypeName = lit
	}
	return hdr, true, nil
}

// OpenBody consumes the opening '{' or '(' and returns the byte that must
// close the body ('}' or ')', respectively).
func (r *Reader) OpenBody() (byte, error) {
	r.pos = r.scn.SkipIntraEntry(r.pos)
	switch r.scn.Byte(r.pos) {
	case '{':
		r.pos++
		return '}', nil
	case '(':
		r.pos++
		return ')', nil
	default:
		return 0, r.err(bibtexerr.CodeExpectedEntryHeader, r.pos)
	}
}

// closeBody consumes the expected closer, or reports BracketMismatch /
// UnexpectedEof.
func (r *Reader) closeBody(closer byte) error {
	r.pos = r.scn.SkipIntraEntry(r.pos)
	got := r.scn.Byte(r.pos)
	if got == 0 && r.pos >= r.scn.Len() {
		return r.err(bibtexerr.CodeUnexpectedEof, r.pos)
	}
	if got != closer {
		return r.err(bibtexerr.CodeBracketMismatch, r.pos)
	}
	r.pos++
	return nil
}

// ReadCitationKey reads a regular entry's citation key: identifier bytes,
// case-sensitive, may consist solely of digits (as field keys may).
func (r *Reader) ReadCitationKey() ([]byte, error) {
	r.pos = r.scn.SkipIntraEntry(r.pos)
	newPos, lit, err := r.scn.Identifier(r.pos)
	if err != nil {
		return nil, syntaxFromScan(err, bibtexerr.CodeEmpty, r.file)
	}
	r.pos = newPos
	return lit, nil
}

// ReadFieldKey reads a field key. Field keys are identifier-shaped but,
// unlike variables, may start with an ASCII digit (§6, compatibility
// divergence).
func (r *Reader) ReadFieldKey() ([]byte, error) {
	r.pos = r.scn.SkipIntraEntry(r.pos)
	newPos, lit, err := r.scn.Identifier(r.pos)
	if err != nil {
		return nil, syntaxFromScan(err, bibtexerr.CodeEmpty, r.file)
	}
	r.pos = newPos
	return lit, nil
}

// ReadVariable reads a macro-variable name: identifier-shaped and must not
// start with an ASCII digit.
func (r *Reader) ReadVariable() ([]byte, error) {
	start := r.pos
	lit, err := r.ReadFieldKey()
	if err != nil {
		return nil, err
	}
	if verr := ident.ValidateVariable(lit); verr != nil {
		return nil, syntaxFromScan(&scanner.Error{Code: scanner.StartsWithDigit, Offset: start}, bibtexerr.CodeStartsWithDigit, r.file)
	}
	return lit, nil
}

// ReadAssign consumes the '=' field separator.
func (r *Reader) ReadAssign() error {
	r.pos = r.scn.SkipIntraEntry(r.pos)
	if r.scn.Byte(r.pos) != '=' {
		return r.err(bibtexerr.CodeExpectedFieldSeparator, r.pos)
	}
	r.pos++
	return nil
}

// readOneToken reads a single value token: brace text, quoted text, a digit
// run, or a variable reference.
func (r *Reader) readOneToken() (value.Token, error) {
	r.pos = r.scn.SkipIntraEntry(r.pos)
	switch c := r.scn.Byte(r.pos); {
	case c == '{':
		r.pos++
		newPos, inner, err := r.scn.Balanced(r.pos)
		if err != nil {
			return value.Token{}, syntaxFromScan(err, bibtexerr.CodeUnterminatedTextToken, r.file)
		}
		r.pos = newPos
		return value.NewText(inner), nil
	case c == '"':
		r.pos++
		newPos, inner, err := r.scn.ProtectedUntil(r.pos, 0, '"')
		if err != nil {
			return value.Token{}, syntaxFromScan(err, bibtexerr.CodeUnterminatedTextToken, r.file)
		}
		r.pos = newPos
		return value.NewText(inner), nil
	case c >= '0' && c <= '9':
		newPos, lit, err := r.scn.DigitRun(r.pos)
		if err != nil {
			return value.Token{}, syntaxFromScan(err, bibtexerr.CodeEmpty, r.file)
		}
		r.pos = newPos
		return value.NewText(lit), nil
	case ident.IsIdentByte(c) && c != 0:
		name, err := r.ReadVariable()
		if err != nil {
			return value.Token{}, err
		}
		return value.NewVariable(name), nil
	default:
		return value.Token{}, r.err(bibtexerr.CodeUnexpectedEof, r.pos)
	}
}

// ReadValueExpr reads a full value expression: one token, followed by zero
// or more "# token" pairs. A value expression with zero tokens is always a
// syntax error at this layer; the empty-preamble / empty-@string-body cases
// are special-cased by their respective callers before reaching here.
func (r *Reader) ReadValueExpr() ([]value.Token, error) {
	first, err := r.readOneToken()
	if err != nil {
		return nil, err
	}
	toks := []value.Token{first}
	for {
		save := r.pos
		r.pos = r.scn.SkipIntraEntry(r.pos)
		if r.scn.Byte(r.pos) != '#' {
			r.pos = save
			break
		}
		r.pos++
		tok, err := r.readOneToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
	}
	return toks, nil
}

// atClose reports whether, after skipping intra-entry whitespace/comments,
// the cursor sits on the given closer byte (without consuming it).
func (r *Reader) atClose(closer byte) bool {
	p := r.scn.SkipIntraEntry(r.pos)
	return r.scn.Byte(p) == closer
}

// otherCloser returns the closing bracket byte not expected at this position
// ('}' for a '('-opened body and vice versa), so a reader can tell "wrong
// bracket" apart from "garbage" at the same position.
func otherCloser(closer byte) byte {
	if closer == '}' {
		return ')'
	}
	return '}'
}

// expectCommaOrClose consumes a field/key separator comma, or verifies the
// next byte is closer (in which case nothing is consumed so the caller's
// closeBody call can consume it). A doubled comma is a syntax error. Seeing
// the *other* bracket's closer here means the entry was opened with one
// bracket and closed with the other (§8 scenario 4), which is reported as
// CodeBracketMismatch rather than CodeExpectedFieldSeparator.
func (r *Reader) expectCommaOrClose(closer byte) (hasComma bool, err error) {
	r.pos = r.scn.SkipIntraEntry(r.pos)
	if r.scn.Byte(r.pos) == closer {
		return false, nil
	}
	if r.scn.Byte(r.pos) == otherCloser(closer) {
		return false, r.err(bibtexerr.CodeBracketMismatch, r.pos)
	}
	if r.scn.Byte(r.pos) != ',' {
		return false, r.err(bibtexerr.CodeExpectedFieldSeparator, r.pos)
	}
	r.pos++
	r.pos = r.scn.SkipIntraEntry(r.pos)
	if r.scn.Byte(r.pos) == ',' {
		return false, r.err(bibtexerr.CodeDoubleComma, r.pos)
	}
	return true, nil
}

// ReadRegularBody reads a regular entry's body after OpenBody: the citation
// key followed by zero or more "field = value" pairs, an optional trailing
// comma, then the closer. fn is called once per field.
func (r *Reader) ReadRegularBody(closer byte, fn func(key []byte, val []value.Token) error) (citeKey []byte, err error) {
	citeKey, err = r.ReadCitationKey()
	if err != nil {
		return nil, err
	}
	for {
		hasComma, err := r.expectCommaOrClose(closer)
		if err != nil {
			return nil, err
		}
		if !hasComma {
			break
		}
		if r.atClose(closer) {
			break // trailing comma
		}
		key, err := r.ReadFieldKey()
		if err != nil {
			return nil, err
		}
		if err := r.ReadAssign(); err != nil {
			return nil, err
		}
		val, err := r.ReadValueExpr()
		if err != nil {
			return nil, err
		}
		if err := fn(key, val); err != nil {
			return nil, err
		}
	}
	if err := r.closeBody(closer); err != nil {
		return nil, err
	}
	return citeKey, nil
}

// ReadAbbrevBody reads a @string body: optionally empty, or exactly one
// "variable = value" pair with an optional trailing comma.
func (r *Reader) ReadAbbrevBody(closer byte) (name []byte, val []value.Token, hasDef bool, err error) {
	if r.atClose(closer) {
		if err := r.closeBody(closer); err != nil {
			return nil, nil, false, err
		}
		return nil, nil, false, nil
	}
	name, err = r.ReadVariable()
	if err != nil {
		return nil, nil, false, err
	}
	if err := r.ReadAssign(); err != nil {
		return nil, nil, false, err
	}
	val, err = r.ReadValueExpr()
	if err != nil {
		return nil, nil, false, err
	}
	if _, err := r.expectCommaOrClose(closer); err != nil {
		return nil, nil, false, err
	}
	if err := r.closeBody(closer); err != nil {
		return nil, nil, false, err
	}
	return name, val, true, nil
}

// ReadPreambleBody reads a @preamble body: exactly one value expression (a
// zero-token body is rejected, per the Open Question in spec §9 resolved in
// favor of the tightest reading).
func (r *Reader) ReadPreambleBody(closer byte) ([]value.Token, error) {
	if r.atClose(closer) {
		return nil, r.err(bibtexerr.CodeEmpty, r.pos)
	}
	toks, err := r.ReadValueExpr()
	if err != nil {
		return nil, err
	}
	if err := r.closeBody(closer); err != nil {
		return nil, err
	}
	return toks, nil
}

// ReadCommentBody reads a @comment body verbatim: a balanced text if opened
// with '{', or a ')'-protected text if opened with '('. The payload is raw
// bytes; comment bodies are never macro-expanded or tokenized further.
func (r *Reader) ReadCommentBody(closer byte) ([]byte, error) {
	var newPos int
	var inner []byte
	var err error
	if closer == '}' {
		newPos, inner, err = r.scn.Balanced(r.pos)
	} else {
		newPos, inner, err = r.scn.ProtectedUntil(r.pos, '(', closer)
	}
	if err != nil {
		return nil, syntaxFromScan(err, bibtexerr.CodeUnterminatedTextToken, r.file)
	}
	r.pos = newPos
	return inner, nil
}

// ---------------------------------------------------------------------
// Ignore verbs: same productions, discarding content, still enforcing
// bracket matching so a later malformed entry is never silently swallowed.

// IgnoreEntry skips a whole entry's body given its already-read header.
func (r *Reader) IgnoreEntry(hdr Header) error {
	closer, err := r.OpenBody()
	if err != nil {
		return err
	}
	switch hdr.Kind {
	case Comment:
		_, err := r.ReadCommentBody(closer)
		return err
	case Preamble:
		_, err := r.ReadPreambleBody(closer)
		return err
	case Abbrev:
		_, _, _, err := r.ReadAbbrevBody(closer)
		return err
	default:
		_, err := r.ReadRegularBody(closer, func(_ []byte, _ []value.Token) error { return nil })
		return err
	}
}

// IgnoreAll walks the entire remaining input, verifying syntactic validity
// but materializing nothing — the driver's Ignore mode.
func (r *Reader) IgnoreAll() error {
	for {
		hdr, ok, err := r.NextEntry()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := r.IgnoreEntry(hdr); err != nil {
			return err
		}
	}
}
