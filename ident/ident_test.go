package ident

import "testing"

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
		code    Code
	}{
		{"empty", "", true, Empty},
		{"simple", "article", false, OK},
		{"leading digit ok", "123abc", false, OK},
		{"contains brace", "a{b", true, InvalidChar},
		{"contains space", "a b", true, InvalidChar},
		{"contains percent", "a%b", true, InvalidChar},
		{"non-ascii", "héllo", false, OK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateIdentifier(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if ierr, ok := err.(*Error); !ok || ierr.Code != tt.code {
					t.Errorf("ValidateIdentifier(%q) code = %v, want %v", tt.in, err, tt.code)
				}
			}
		})
	}
}

func TestValidateVariable(t *testing.T) {
	if err := ValidateVariable([]byte("123abc")); err == nil {
		t.Error("variable starting with digit should be rejected")
	}
	if err := ValidateVariable([]byte("abc123")); err != nil {
		t.Errorf("valid variable rejected: %v", err)
	}
}

func TestIsBalanced(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"abc", true},
		{"{abc}", true},
		{"{a{b}c}", true},
		{"{a{b}", false},
		{"a}b", false},
		{"{}{}", true},
		{"}{", false},
	}
	for _, tt := range tests {
		if got := IsBalanced([]byte(tt.in)); got != tt.want {
			t.Errorf("IsBalanced(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidUTF8(t *testing.T) {
	if !ValidUTF8([]byte("héllo")) {
		t.Error("valid UTF-8 rejected")
	}
	if ValidUTF8([]byte{0xff, 0xfe}) {
		t.Error("invalid UTF-8 accepted")
	}
}
