package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseDomainName(t *testing.T) {
	tests := []struct {
		input   string
		want    []string
		wantErr error
	}{
		{input: "codecrafters.io", want: []string{"codecrafters", "io"}},
		{input: "www.example.com.", want: []string{"www", "example", "com"}},
		{input: "MiXeD.Case", want: []string{"MiXeD", "Case"}},
		{input: "", want: nil},
		{input: ".", want: nil},
		{input: "  localhost  ", want: []string{"localhost"}},
		{input: "a..b", wantErr: ErrEmptyLabel},
		{input: ".leading", wantErr: ErrEmptyLabel},
		{input: "trailing..", wantErr: ErrEmptyLabel},
		{input: strings.Repeat("x", 64) + ".com", wantErr: ErrLabelTooLong},
		{input: "café.com", wantErr: ErrNonASCIILabel},
	}

	for _, tt := range tests {
		got, err := ParseDomainName(tt.input)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseDomainName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDomainName(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseDomainName(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseDomainName(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestDomainName_LabelLengthBoundary(t *testing.T) {
	ok := DomainName{strings.Repeat("a", MaxLabelLength)}
	if err := ok.Validate(); err != nil {
		t.Errorf("63-byte label should be valid: %v", err)
	}
	tooLong := DomainName{strings.Repeat("a", MaxLabelLength+1)}
	if err := tooLong.Validate(); !errors.Is(err, ErrLabelTooLong) {
		t.Errorf("64-byte label error = %v, want ErrLabelTooLong", err)
	}
}

func TestDomainName_TotalLengthBoundary(t *testing.T) {
	// four 62-byte labels: 4*(1+62) + 1 = 253 bytes
	label := strings.Repeat("b", 62)
	name := DomainName{label, label, label, label}
	if got := name.WireLength(); got != 253 {
		t.Fatalf("WireLength() = %d, want 253", got)
	}
	if err := name.Validate(); err != nil {
		t.Errorf("253-byte name should be valid: %v", err)
	}

	// adding "c" brings it to exactly 255
	exact := append(append(DomainName{}, name...), "c")
	if got := exact.WireLength(); got != MaxNameLength {
		t.Fatalf("WireLength() = %d, want %d", got, MaxNameLength)
	}
	if err := exact.Validate(); err != nil {
		t.Errorf("255-byte name should be valid: %v", err)
	}

	over := append(append(DomainName{}, name...), "cc")
	if err := over.Validate(); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("256-byte name error = %v, want ErrNameTooLong", err)
	}
}

func TestDomainName_String(t *testing.T) {
	cases := []struct {
		name DomainName
		want string
	}{
		{DomainName{}, "."},
		{nil, "."},
		{DomainName{"abc", "d"}, "abc.d."},
	}
	for _, tc := range cases {
		if got := tc.name.String(); got != tc.want {
			t.Errorf("String(%v) = %q, want %q", []string(tc.name), got, tc.want)
		}
	}
}

func TestDomainName_WireLength(t *testing.T) {
	if got := (DomainName{}).WireLength(); got != 1 {
		t.Errorf("root WireLength() = %d, want 1", got)
	}
	if got := (DomainName{"abc", "d"}).WireLength(); got != 7 {
		t.Errorf("abc.d WireLength() = %d, want 7", got)
	}
}

func TestMustParseDomainName_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for invalid name")
		}
	}()
	MustParseDomainName("a..b")
}
