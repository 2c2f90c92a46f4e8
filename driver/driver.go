// Package driver implements the deserialization driver (§4.4): it pulls
// entries from a reader.Reader and shapes them into one of four consumer-
// requested forms (Ignore, Raw borrowed, Resolved borrowed, Owned typed),
// threading a macro.Dictionary through the walk so `@string` definitions
// take effect immediately after their entry is consumed and affect only
// entries parsed afterward (§5, "Ordering guarantees").
package driver

import (
	"io"

	"github.com/bibparse/bibtex/bibtexerr"
	"github.com/bibparse/bibtex/macro"
	"github.com/bibparse/bibtex/reader"
	"github.com/bibparse/bibtex/token"
	"github.com/bibparse/bibtex/value"
	"github.com/sirupsen/logrus"
)

// Field is one "key = value" pair of a raw regular entry, borrowed from the
// input buffer.
type Field struct {
	Key   []byte
	Value []value.Token
}

// RawEntry is the tagged-variant shape of §4.4 mode 2: every field, key, and
// token is a slice borrowed from the input, with no macro resolution. The
// per-entry field vector and one token slice per value expression are
// allocated; the token bytes themselves are not copied.
type RawEntry struct {
	Kind     reader.Kind
	TypeName []byte        // Regular only: the entry-type identifier as written
	Key      []byte        // Regular only: the citation key
	Fields   []Field       // Regular only
	Name     []byte        // Abbrev only: the variable name (nil if @string{} was empty)
	Value    []value.Token // Abbrev (if Name != nil) and Preamble only
	Text     []byte        // Comment only: the raw payload
	Pos      token.Pos
}

// ResolvedField is one field of a ResolvedEntry, reduced to a single string.
type ResolvedField struct {
	Key   string
	Value string
}

// ResolvedEntry is the shape of §4.4 mode 3: like RawEntry, but every value
// has been macro-expanded and concatenated to a single string. Every string
// is a copy of the token bytes (converting a byte slice to a Go string
// copies it), so no value is backed by the input buffer; a value of exactly
// one token is converted directly, without an intermediate concatenation
// buffer.
type ResolvedEntry struct {
	Kind     reader.Kind
	TypeName string
	Key      string
	Fields   []ResolvedField
	Name     string
	Value    string
	HasValue bool // Abbrev and Preamble: false for an empty @string{} body
	Text     string
	Pos      token.Pos
}

// Option configures a Driver, following the teacher's functional-options
// convention (bibtex.Option / WithParserMode / WithResolvers).
type Option func(*Driver)

// WithLogger attaches a logrus.Logger the driver uses for optional
// diagnostic logging: ResolvedEntries logs a debug message when an @string
// entry redefines an existing macro. Nothing else is logged. The default
// logger discards all output, so a consumer must opt in explicitly.
func WithLogger(log *logrus.Logger) Option {
	return func(d *Driver) { d.log = log }
}

// WithMonths seeds the macro dictionary with the standard month-name
// presets (§4.3) before any input is consumed.
func WithMonths() Option {
	return func(d *Driver) { d.macros.InstallMonths() }
}

// WithDictionary supplies a pre-populated macro dictionary instead of a
// fresh one, letting a consumer carry macro definitions across independent
// parses of several buffers.
func WithDictionary(dict *macro.Dictionary) Option {
	return func(d *Driver) { d.macros = dict }
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Driver drives a reader.Reader to produce consumer-shaped values.
type Driver struct {
	r      *reader.Reader
	macros *macro.Dictionary
	log    *logrus.Logger
}

func newDriver(r *reader.Reader, opts []Option) *Driver {
	d := &Driver{r: r, macros: macro.New(), log: discardLogger()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewBytes creates a Driver over a raw byte buffer with no UTF-8 guarantee.
func NewBytes(buf []byte, opts ...Option) *Driver {
	return newDriver(reader.NewBytes(buf), opts)
}

// NewText creates a Driver over a buffer guaranteed to be well-formed UTF-8.
func NewText(s string, opts ...Option) *Driver {
	return newDriver(reader.NewText(s), opts)
}

// Dictionary returns the driver's macro dictionary, letting a consumer
// inspect or seed macro definitions directly.
func (d *Driver) Dictionary() *macro.Dictionary { return d.macros }

// Ignore walks the whole input, verifying syntactic validity but producing
// no values (§4.4 mode 1). Throughput is maximized by staying at the
// scanner layer: Ignore never builds a RawEntry or touches the macro
// dictionary.
func (d *Driver) Ignore() error {
	return d.r.IgnoreAll()
}

// RawEntries walks the whole input and returns every entry as a RawEntry
// (§4.4 mode 2). It performs no macro resolution; Abbrev entries are
// returned as-is, unexpanded, and are not installed into the dictionary.
func (d *Driver) RawEntries() ([]RawEntry, error) {
	var out []RawEntry
	for {
		hdr, ok, err := d.r.NextEntry()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		entry, err := d.readRaw(hdr)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
}

func (d *Driver) readRaw(hdr reader.Header) (RawEntry, error) {
	closer, err := d.r.OpenBody()
	if err != nil {
		return RawEntry{}, err
	}
	e := RawEntry{Kind: hdr.Kind, TypeName: hdr.TypeName, Pos: hdr.Pos}
	switch hdr.Kind {
	case reader.Comment:
		text, err := d.r.ReadCommentBody(closer)
		if err != nil {
			return RawEntry{}, err
		}
		e.Text = text
	case reader.Preamble:
		val, err := d.r.ReadPreambleBody(closer)
		if err != nil {
			return RawEntry{}, err
		}
		e.Value = val
	case reader.Abbrev:
		name, val, hasDef, err := d.r.ReadAbbrevBody(closer)
		if err != nil {
			return RawEntry{}, err
		}
		if hasDef {
			e.Name = name
			e.Value = val
		}
	default:
		key, err := d.r.ReadRegularBody(closer, func(fieldKey []byte, fieldVal []value.Token) error {
			e.Fields = append(e.Fields, Field{Key: fieldKey, Value: fieldVal})
			return nil
		})
		if err != nil {
			return RawEntry{}, err
		}
		e.Key = key
	}
	return e, nil
}

// resolveValue expands toks against the dictionary and reduces the result
// to a single string, reporting an unresolved-macro error (§4.4 mode 3,
// "unresolved macro inside a resolved string is an error").
func (d *Driver) resolveValue(toks []value.Token) (string, error) {
	expanded := d.macros.Resolve(toks)
	for _, t := range expanded {
		if t.Kind == value.Variable {
			return "", bibtexerr.NewMacro(t.Text())
		}
	}
	return value.Concat(expanded), nil
}

// ResolvedEntries walks the whole input and returns every entry as a
// ResolvedEntry (§4.4 mode 3): each field's value expression is macro-
// expanded and concatenated to a single string. Abbrev entries are resolved
// against the dictionary as encountered and then installed into it, so a
// later entry observes the definition but an earlier one does not (§5,
// "macro definitions take effect immediately after their @string entry is
// fully consumed").
func (d *Driver) ResolvedEntries() ([]ResolvedEntry, error) {
	var out []ResolvedEntry
	for {
		hdr, ok, err := d.r.NextEntry()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		raw, err := d.readRaw(hdr)
		if err != nil {
			return nil, err
		}
		resolved, err := d.resolveEntry(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
}

func (d *Driver) resolveEntry(raw RawEntry) (ResolvedEntry, error) {
	e := ResolvedEntry{Kind: raw.Kind, TypeName: string(raw.TypeName), Key: string(raw.Key), Pos: raw.Pos}
	switch raw.Kind {
	case reader.Comment:
		e.Text = string(raw.Text)
	case reader.Preamble:
		s, err := d.resolveValue(raw.Value)
		if err != nil {
			return ResolvedEntry{}, err
		}
		e.Value = s
		e.HasValue = true
	case reader.Abbrev:
		if raw.Name != nil {
			s, err := d.resolveValue(raw.Value)
			if err != nil {
				return ResolvedEntry{}, err
			}
			e.Name = string(raw.Name)
			e.Value = s
			e.HasValue = true
			if _, redefined := d.macros.Lookup(e.Name); redefined {
				d.log.WithField("variable", e.Name).Debug("macro redefinition")
			}
			d.macros.Insert(e.Name, raw.Value)
		}
	default:
		e.Fields = make([]ResolvedField, 0, len(raw.Fields))
		for _, f := range raw.Fields {
			s, err := d.resolveValue(f.Value)
			if err != nil {
				return ResolvedEntry{}, err
			}
			e.Fields = append(e.Fields, ResolvedField{Key: string(f.Key), Value: s})
		}
	}
	return e, nil
}

// RegularEntry is the shape yielded by the iterator surface of §4.4: a
// single regular entry with its fields already macro-resolved.
type RegularEntry struct {
	TypeName string
	Key      string
	Fields   []ResolvedField
	Pos      token.Pos
}

// Iterator exposes regular-entry-only iteration over a Driver's input,
// automatically capturing @string definitions into the dictionary as they
// are encountered and silently skipping comments and preambles (§4.4,
// "Iterator mode").
type Iterator struct {
	d   *Driver
	err error
}

// Iterate returns an Iterator over the driver's remaining input.
func (d *Driver) Iterate() *Iterator { return &Iterator{d: d} }

// Next advances to the next regular entry, returning false at a clean end
// of input or after an error (inspect Err to distinguish the two).
func (it *Iterator) Next() (RegularEntry, bool) {
	for {
		hdr, ok, err := it.d.r.NextEntry()
		if err != nil {
			it.err = err
			return RegularEntry{}, false
		}
		if !ok {
			return RegularEntry{}, false
		}
		raw, err := it.d.readRaw(hdr)
		if err != nil {
			it.err = err
			return RegularEntry{}, false
		}
		switch hdr.Kind {
		case reader.Comment, reader.Preamble:
			continue
		case reader.Abbrev:
			if raw.Name != nil {
				it.d.macros.Insert(string(raw.Name), raw.Value)
			}
			continue
		default:
			resolved, err := it.d.resolveEntry(raw)
			if err != nil {
				it.err = err
				return RegularEntry{}, false
			}
			return RegularEntry{
				TypeName: resolved.TypeName,
				Key:      resolved.Key,
				Fields:   resolved.Fields,
				Pos:      resolved.Pos,
			}, true
		}
	}
}

// Err returns the error, if any, that stopped iteration.
func (it *Iterator) Err() error { return it.err }
