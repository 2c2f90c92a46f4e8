package emit

import (
	"errors"
	"strings"
	"testing"

	"github.com/bibparse/bibtex/bibtexerr"
	"github.com/bibparse/bibtex/driver"
)

func TestWritePretty(t *testing.T) {
	entries, err := driver.NewText(`@article{k, title = {A Title}, year = 2014}`).RawEntries()
	if err != nil {
		t.Fatalf("RawEntries: %v", err)
	}
	var sb strings.Builder
	if err := Write(&sb, Pretty{}, entries); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, "@article{") {
		t.Errorf("missing entry prefix: %q", out)
	}
	if !strings.Contains(out, "title = {A Title}") {
		t.Errorf("missing field: %q", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("missing trailing newline: %q", out)
	}
}

func TestWriteCompactHasNoDiscretionaryWhitespace(t *testing.T) {
	entries, err := driver.NewText(`@article{k, title = {A Title}, year = 2014}`).RawEntries()
	if err != nil {
		t.Fatalf("RawEntries: %v", err)
	}
	var sb strings.Builder
	if err := Write(&sb, Compact{}, entries); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := sb.String()
	if strings.Contains(out, "\n") || strings.Contains(out, "  ") {
		t.Errorf("compact output should have no newlines/indentation: %q", out)
	}
	if !strings.Contains(out, "title={A Title}") {
		t.Errorf("missing compact field: %q", out)
	}
}

func TestRoundTrip(t *testing.T) {
	in := `@article{k, title = {A Title}, year = 2014}`
	entries, err := driver.NewText(in).RawEntries()
	if err != nil {
		t.Fatalf("RawEntries: %v", err)
	}
	var sb strings.Builder
	if err := Write(&sb, Pretty{}, entries); err != nil {
		t.Fatalf("Write: %v", err)
	}
	reEntries, err := driver.NewText(sb.String()).RawEntries()
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	if len(reEntries) != 1 || string(reEntries[0].Key) != "k" || len(reEntries[0].Fields) != 2 {
		t.Errorf("round trip mismatch: %+v", reEntries)
	}
}

func TestValidateIdentifiersRejectsBadKey(t *testing.T) {
	entries, err := driver.NewText(`@article{k, title = {A Title}}`).RawEntries()
	if err != nil {
		t.Fatalf("RawEntries: %v", err)
	}
	entries[0].Key = []byte("has space")
	if err := ValidateIdentifiers(entries[0]); err == nil {
		t.Error("expected identifier validation error")
	}
}

func TestValidateIdentifiersRejectsUnbalancedToken(t *testing.T) {
	entries, err := driver.NewText(`@article{k, title = {A Title}}`).RawEntries()
	if err != nil {
		t.Fatalf("RawEntries: %v", err)
	}
	entries[0].Fields[0].Value[0].Bytes = []byte("{unbalanced")
	if err := ValidateIdentifiers(entries[0]); err == nil {
		t.Error("expected balance validation error")
	}
}

func TestWriteValidatedSurfacesIoError(t *testing.T) {
	entries, err := driver.NewText(`@article{k, title = {A Title}}`).RawEntries()
	if err != nil {
		t.Fatalf("RawEntries: %v", err)
	}
	entries[0].Key = []byte("has space")
	var sb strings.Builder
	err = WriteValidated(&sb, Pretty{}, entries)
	var bibErr *bibtexerr.Error
	if !errors.As(err, &bibErr) {
		t.Fatalf("expected *bibtexerr.Error, got %v", err)
	}
	if bibErr.Kind != bibtexerr.Io {
		t.Errorf("Kind = %v, want Io", bibErr.Kind)
	}
}

func TestWriteValidatedPassesThroughValidEntries(t *testing.T) {
	entries, err := driver.NewText(`@article{k, title = {A Title}}`).RawEntries()
	if err != nil {
		t.Fatalf("RawEntries: %v", err)
	}
	var sb strings.Builder
	if err := WriteValidated(&sb, Pretty{}, entries); err != nil {
		t.Fatalf("WriteValidated: %v", err)
	}
	if !strings.Contains(sb.String(), "@article{") {
		t.Errorf("unexpected output: %q", sb.String())
	}
}
