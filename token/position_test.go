package token

import "testing"

func TestFilePosition(t *testing.T) {
	buf := "line one\nline two\nline three"
	f := NewFile(len(buf))
	for i, c := range buf {
		if c == '\n' {
			f.AddLine(i + 1)
		}
	}

	tests := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{8, 1, 9},
		{9, 2, 1},
		{14, 2, 6},
		{18, 3, 1},
	}
	for _, tt := range tests {
		p := f.Pos(tt.offset)
		pos := f.Position(p)
		if pos.Line != tt.line || pos.Column != tt.column {
			t.Errorf("Position(offset=%d) = %d:%d, want %d:%d", tt.offset, pos.Line, pos.Column, tt.line, tt.column)
		}
	}
}

func TestNoPos(t *testing.T) {
	if NoPos.IsValid() {
		t.Error("NoPos should be invalid")
	}
	if NoPos.String() != "-" {
		t.Errorf("NoPos.String() = %q, want %q", NoPos.String(), "-")
	}
	var p Position
	if p.IsValid() {
		t.Error("zero Position should be invalid")
	}
}

func TestFileOffsetRoundTrip(t *testing.T) {
	f := NewFile(20)
	for offset := 0; offset < 20; offset++ {
		p := f.Pos(offset)
		if got := f.Offset(p); got != offset {
			t.Errorf("Offset(Pos(%d)) = %d", offset, got)
		}
	}
}
