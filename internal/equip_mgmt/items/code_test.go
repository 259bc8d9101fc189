package items

import "testing"

func TestPrefixFromCategory(t *testing.T) {
	tests := []struct {
		category string
		expected string
	}{
		{"Camera", "CA"},
		{"lens", "LE"},
		{"Kit", "KI"},
		{"X", "XX"},       // single letter padded
		{"三脚", "XX"},      // no ASCII letters at all
		{"Ｃａｍｅｒａ", "CA"}, // full-width folds to ASCII
		{"4K Monitor", "KM"},
	}

	for _, tt := range tests {
		if got := prefixFromCategory(tt.category); got != tt.expected {
			t.Errorf("prefixFromCategory(%q) = %q, want %q", tt.category, got, tt.expected)
		}
	}
}

func TestGenerateCode(t *testing.T) {
	tests := []struct {
		name     string
		category string
		existing []string
		expected string
	}{
		{"first code in category", "Camera", nil, "CA1001"},
		{"next after highest", "Camera", []string{"CA1001", "CA1005", "CA1003"}, "CA1006"},
		{"other prefixes ignored", "Camera", []string{"LE1001", "LE1002", "CA1001"}, "CA1002"},
		{"non numeric suffix ignored", "Camera", []string{"CAXXXX", "CA1001"}, "CA1002"},
		{"padding follows widest existing", "Camera", []string{"CA100100"}, "CA100101"},
		{"gap not reused", "Camera", []string{"CA1001", "CA1009"}, "CA1010"},
	}

	for _, tt := range tests {
		got := GenerateCode(tt.category, tt.existing)
		if got != tt.expected {
			t.Errorf("%s: GenerateCode = %q, want %q", tt.name, got, tt.expected)
		}
		// Same input must always produce the same code.
		if again := GenerateCode(tt.category, tt.existing); again != got {
			t.Errorf("%s: GenerateCode not stable: %q then %q", tt.name, got, again)
		}
	}
}

func TestGenerateCodeNeverCollides(t *testing.T) {
	existing := []string{"CA1001", "CA1002", "CA1003"}
	for i := 0; i < 50; i++ {
		code := GenerateCode("Camera", existing)
		for _, e := range existing {
			if e == code {
				t.Fatalf("generated duplicate code %q", code)
			}
		}
		existing = append(existing, code)
	}
}
