package bibtex

import (
	"reflect"

	"github.com/bibparse/bibtex/bibtexerr"
	"github.com/bibparse/bibtex/driver"
	"github.com/bibparse/bibtex/reader"
)

// decodeAll decodes every regular entry in entries into a freshly appended
// element of the slice dst points to, skipping macro/comment/preamble
// entries (they have no field set a struct shape could bind to).
func decodeAll(entries []driver.ResolvedEntry, dst interface{}, policy driver.FieldPolicy) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return bibtexerr.NewShape("Decode requires a pointer to a slice, got %T", dst)
	}
	sliceVal := rv.Elem()
	elemType := sliceVal.Type().Elem()

	for _, e := range entries {
		if e.Kind != reader.Regular {
			continue
		}
		elem := reflect.New(elemType)
		if err := driver.Decode(e, elem.Interface(), driver.DecodeOptions{Policy: policy}); err != nil {
			return err
		}
		sliceVal.Set(reflect.Append(sliceVal, elem.Elem()))
	}
	return nil
}
