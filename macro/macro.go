// Package macro implements the bibtex macro dictionary (§4.3): a
// case-insensitive, Unicode-folded store of `@string` definitions, expanded
// eagerly on insert so lookups and resolve never need to walk a chain of
// references or guard against cycles.
//
// The dictionary shape mirrors the teacher's ast.Scope (a flat name->object
// map with Insert/Lookup), but keyed by a folded string instead of a raw Go
// string, and storing value.Token slices instead of AST nodes.
package macro

import (
	"github.com/bibparse/bibtex/value"
	"golang.org/x/text/cases"
)

// fold is the single case-folding primitive used for every dictionary key.
// strings.ToLower is explicitly insufficient here: it leaves "ß" as "ß"
// rather than folding it to collide with "SS"/"ss", which §8's testable
// properties require ("SS, ss, ß collide").
var fold = cases.Fold()

func foldKey(name string) string { return fold.String(name) }

// Dictionary is a case-insensitive, Unicode-folded store of macro
// definitions. The zero value is not ready for use; call New.
type Dictionary struct {
	entries map[string][]value.Token
	scratch []value.Token // reused by resolve, never exposed
}

// New creates an empty Dictionary.
func New() *Dictionary {
	return &Dictionary{entries: make(map[string][]value.Token, 16)}
}

// NewWithMonths creates a Dictionary seeded with the standard month macro
// preset (jan -> 1, feb -> 2, ..., dec -> 12), per §4.3.
func NewWithMonths() *Dictionary {
	d := New()
	d.InstallMonths()
	return d
}

var monthNames = [12]string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

var monthValues = [12]string{
	"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12",
}

// InstallMonths seeds the standard month abbreviations into the dictionary,
// overwriting any existing bindings for those names. It is a pure
// initializer: calling it twice is idempotent.
func (d *Dictionary) InstallMonths() {
	for i, name := range monthNames {
		d.entries[foldKey(name)] = []value.Token{value.NewText([]byte(monthValues[i]))}
	}
}

// Insert expands tokens against the current dictionary (replacing every
// Variable token whose name is already defined with its stored expansion;
// undefined references are left as unresolved Variable tokens), then stores
// the expanded sequence under name, overwriting any previous binding.
//
// Because expansion always happens against an already-expanded dictionary
// at insert time, cyclic definitions cannot arise and lookup/resolve never
// need cycle detection (§4.3, "Ordering guarantees").
func (d *Dictionary) Insert(name string, tokens []value.Token) {
	expanded := d.expand(tokens)
	d.entries[foldKey(name)] = expanded
}

// Lookup returns the stored sequence for name, with Unicode case-folded
// comparison, and whether it was found.
func (d *Dictionary) Lookup(name string) ([]value.Token, bool) {
	toks, ok := d.entries[foldKey(name)]
	return toks, ok
}

// expand returns a new slice with every Variable token replaced by its
// looked-up expansion (spliced in place of the single token), leaving
// unresolved variables untouched. Text tokens pass through unchanged.
func (d *Dictionary) expand(tokens []value.Token) []value.Token {
	out := make([]value.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != value.Variable {
			out = append(out, t)
			continue
		}
		if def, ok := d.Lookup(t.Text()); ok {
			out = append(out, def...)
			continue
		}
		out = append(out, t)
	}
	return out
}

// Resolve expands tokens against the current dictionary, the same way
// Insert does, reusing a single scratch buffer across calls (§4.3,
// "single scratch buffer") so repeated resolution during a parse does not
// allocate a fresh slice per field. The returned slice is only valid until
// the next call to Resolve; callers that need to retain the result must
// copy it.
func (d *Dictionary) Resolve(tokens []value.Token) []value.Token {
	d.scratch = d.scratch[:0]
	for _, t := range tokens {
		if t.Kind != value.Variable {
			d.scratch = append(d.scratch, t)
			continue
		}
		if def, ok := d.Lookup(t.Text()); ok {
			d.scratch = append(d.scratch, def...)
			continue
		}
		d.scratch = append(d.scratch, t)
	}
	return d.scratch
}
