package driver

import (
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bibparse/bibtex/bibtexerr"
)

// FieldPolicy controls how Decode handles fields that don't line up cleanly
// between a struct shape and an entry's fields (§4.4 mode 4, "missing
// non-optional fields and extra unknown fields are handled per the
// consumer's declared policy").
type FieldPolicy int

const (
	// Strict rejects any entry missing a required (non-pointer) exported
	// struct field, and any entry field that no exported struct field binds
	// to (by tag or by Go field name).
	Strict FieldPolicy = iota
	// Lenient ignores unknown entry fields and leaves missing non-optional
	// struct fields at their zero value.
	Lenient
)

// DecodeOptions configures Decode.
type DecodeOptions struct {
	Policy FieldPolicy
}

// Decode matches a ResolvedEntry's fields against the exported fields of the
// struct pointed to by dst, using the `bibtex:"name"` struct tag (falling
// back to the Go field name, case-insensitively either way) to pick the
// entry field each struct field binds to. Supported scalar kinds are
// string, the signed/unsigned integer kinds, float32/float64, bool, and
// rune/int32 treated as a single code point; a pointer to any of those is
// an optional field, left nil when the source field is empty or absent.
func Decode(e ResolvedEntry, dst interface{}, opts DecodeOptions) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return bibtexerr.NewShape("Decode requires a pointer to a struct, got %T", dst)
	}
	sv := rv.Elem()
	st := sv.Type()

	byKey := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		byKey[strings.ToLower(f.Key)] = f.Value
	}
	seen := make(map[string]bool, len(e.Fields))

	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Tag.Get("bibtex")
		if name == "" {
			name = sf.Name
		}
		key := strings.ToLower(name)
		text, ok := byKey[key]
		seen[key] = true
		fv := sv.Field(i)

		optional := fv.Kind() == reflect.Ptr
		if !ok {
			if !optional && opts.Policy == Strict {
				return bibtexerr.NewShape("missing required field %q", name)
			}
			continue
		}
		if optional {
			if text == "" {
				continue
			}
			elem := reflect.New(fv.Type().Elem())
			if err := assignScalar(elem.Elem(), text); err != nil {
				return err
			}
			fv.Set(elem)
			continue
		}
		if err := assignScalar(fv, text); err != nil {
			return err
		}
	}

	if opts.Policy == Strict {
		for _, f := range e.Fields {
			if !seen[strings.ToLower(f.Key)] {
				return bibtexerr.NewShape("unknown field %q", f.Key)
			}
		}
	}
	return nil
}

func assignScalar(fv reflect.Value, text string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(text)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.ToLower(text))
		if err != nil {
			return bibtexerr.NewParse("boolean", text)
		}
		fv.SetBool(b)
	case reflect.Int32:
		// rune is an alias for int32, and reflect cannot distinguish the two;
		// an int32-kinded field is always treated as the spec's "char"
		// scalar (a plain 32-bit integer field should use int or int64).
		r, err := singleRune(text)
		if err != nil {
			return err
		}
		fv.SetInt(int64(r))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return bibtexerr.NewParse("integer", text)
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return bibtexerr.NewParse("integer", text)
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return bibtexerr.NewParse("float", text)
		}
		fv.SetFloat(n)
	default:
		return bibtexerr.NewShape("unsupported scalar kind %s", fv.Kind())
	}
	return nil
}

func singleRune(text string) (rune, error) {
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError || size != len(text) {
		return 0, bibtexerr.NewParse("char", text)
	}
	return r, nil
}
