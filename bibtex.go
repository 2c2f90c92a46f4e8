// Package bibtex is a streaming, zero-copy BibTeX parser and emitter: the
// root package wires together scanner, reader, macro, driver, and emit into
// the handful of entry points most consumers need (Parse, Decode, Write),
// while the subpackages remain usable directly for anyone who needs the
// lower-level control the driver/emit split provides.
package bibtex

import (
	"io"

	"github.com/bibparse/bibtex/driver"
	"github.com/bibparse/bibtex/emit"
)

// CiteKey is the citation key for a Bibtex entry, like the "foo" in:
//
//	@article{ foo }
type CiteKey = string

// EntryType is the type of Bibtex entry. An "@article" entry is represented
// as "article". String alias to allow for unknown entries, since the
// entry-type grammar is open-ended (spec §6, `regular := identifier ...`);
// these constants are a purely additive convenience layer, never required,
// over the small set of types Kingsford-Group-biblint's bib.EntryKind table
// also names.
type EntryType = string

//goland:noinspection GoUnusedConst
const (
	EntryArticle       EntryType = "article"
	EntryBook          EntryType = "book"
	EntryBooklet       EntryType = "booklet"
	EntryInBook        EntryType = "inbook"
	EntryInCollection  EntryType = "incollection"
	EntryInProceedings EntryType = "inproceedings"
	EntryManual        EntryType = "manual"
	EntryMastersThesis EntryType = "mastersthesis"
	EntryMisc          EntryType = "misc"
	EntryPhDThesis     EntryType = "phdthesis"
	EntryProceedings   EntryType = "proceedings"
	EntryTechReport    EntryType = "techreport"
	EntryUnpublished   EntryType = "unpublished"
)

// Field is a single field name in a Bibtex entry.
type Field = string

//goland:noinspection GoUnusedConst
const (
	FieldAddress      Field = "address"
	FieldAnnote       Field = "annote"
	FieldAuthor       Field = "author"
	FieldBookTitle    Field = "booktitle"
	FieldChapter      Field = "chapter"
	FieldDOI          Field = "doi"
	FieldCrossref     Field = "crossref"
	FieldEdition      Field = "edition"
	FieldEditor       Field = "editor"
	FieldHowPublished Field = "howpublished"
	FieldInstitution  Field = "institution"
	FieldJournal      Field = "journal"
	FieldKey          Field = "key"
	FieldMonth        Field = "month"
	FieldNote         Field = "note"
	FieldNumber       Field = "number"
	FieldOrganization Field = "organization"
	FieldPages        Field = "pages"
	FieldPublisher    Field = "publisher"
	FieldSchool       Field = "school"
	FieldSeries       Field = "series"
	FieldTitle        Field = "title"
	FieldType         Field = "type"
	FieldVolume       Field = "volume"
	FieldYear         Field = "year"
)

// Option configures parsing, following the teacher's functional-options
// convention; it is an alias of driver.Option so callers never need to
// import the driver package for the common case.
type Option = driver.Option

// WithLogger attaches a diagnostic logger to the driver, see driver.WithLogger.
var WithLogger = driver.WithLogger

// WithMonths seeds the macro dictionary with the standard month presets
// before parsing begins, see driver.WithMonths.
var WithMonths = driver.WithMonths

// ParseRaw reads buf and returns every entry as a driver.RawEntry (§4.4
// mode 2): fields, keys, and tokens borrowed from buf, no macro resolution.
func ParseRaw(buf []byte, opts ...Option) ([]driver.RawEntry, error) {
	return driver.NewBytes(buf, opts...).RawEntries()
}

// Parse reads buf and returns every entry as a driver.ResolvedEntry (§4.4
// mode 3): each field reduced to a single macro-expanded string.
func Parse(buf []byte, opts ...Option) ([]driver.ResolvedEntry, error) {
	return driver.NewBytes(buf, opts...).ResolvedEntries()
}

// Validate walks buf verifying syntactic validity without materializing any
// value (§4.4 mode 1, the Ignore shape) — the cheapest way to check a
// document parses.
func Validate(buf []byte, opts ...Option) error {
	return driver.NewBytes(buf, opts...).Ignore()
}

// Decode reads buf and decodes every regular entry into a fresh value of
// dst's element type, via driver.Decode, appending each to the slice dst
// points to. dst must be a pointer to a slice of structs.
func Decode(buf []byte, dst interface{}, policy driver.FieldPolicy, opts ...Option) error {
	entries, err := Parse(buf, opts...)
	if err != nil {
		return err
	}
	return decodeAll(entries, dst, policy)
}

// Write renders entries with the Pretty formatter to w. See the emit
// package for Compact and custom Formatter implementations, and
// emit.WriteValidated for an identifier/balance-checked variant.
func Write(w io.Writer, entries []driver.RawEntry) error {
	return emit.Write(w, emit.Pretty{}, entries)
}
