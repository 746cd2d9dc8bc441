package common

import "testing"

func TestNormalizeSSN_CanonicalForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"with dashes", "123-45-6789", "123456789"},
		{"without dashes", "123456789", "123456789"},
		{"with spaces", "123 45 6789", "123456789"},
		{"dropped leading zeros", "1234567", "001234567"},
		{"eight digits", "12345678", "012345678"},
		{"surrounding whitespace", " 123-45-6789 ", "123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSSN(tt.input)
			if err != nil {
				t.Fatalf("NormalizeSSN(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeSSN(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeSSN_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", "12345"},
		{"too long", "1234567890"},
		{"zero area", "000-45-6789"},
		{"area 666", "666-45-6789"},
		{"area 900 range", "900-45-6789"},
		{"zero group", "123-00-6789"},
		{"zero serial", "123-45-0000"},
		{"letters", "abc-de-fghi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, err := NormalizeSSN(tt.input); err == nil {
				t.Errorf("NormalizeSSN(%q) = %q, want error", tt.input, got)
			}
		})
	}
}

func TestFormatSSN(t *testing.T) {
	if got := FormatSSN("123456789"); got != "123-45-6789" {
		t.Errorf("FormatSSN = %q, want 123-45-6789", got)
	}
	// Non-canonical input passes through untouched
	if got := FormatSSN("12345"); got != "12345" {
		t.Errorf("FormatSSN = %q, want 12345", got)
	}
}
