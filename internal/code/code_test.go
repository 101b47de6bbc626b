package code

import (
	"strings"
	"testing"
)

func TestGenerateLengthAndCharset(t *testing.T) {
	for i := 0; i < 1000; i++ {
		c := Generate()
		if len(c) != Length {
			t.Fatalf("len(%q) = %d, want %d", c, len(c), Length)
		}
		for _, r := range c {
			if !strings.ContainsRune(alphabet, r) {
				t.Fatalf("code %q contains %q, outside A-Z0-9", c, r)
			}
		}
	}
}

func TestGenerateVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[Generate()] = true
	}
	// 100 draws from a 36^6 space colliding down to 1 value would mean a
	// broken generator
	if len(seen) < 2 {
		t.Fatalf("expected varied codes, got %d distinct", len(seen))
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"ABC123", true},
		{"abc123", true},
		{"A1B2C3", true},
		{"AB12", false},   // too short
		{"12345", false},  // 5 chars
		{"ABC1234", false},
		{"ABC 12", false},
		{"ABC-12", false},
		{"", false},
	}
	for _, c := range cases {
		if got := Valid(c.in); got != c.want {
			t.Errorf("Valid(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(" ab12cd "); got != "AB12CD" {
		t.Errorf("Normalize = %q, want %q", got, "AB12CD")
	}
}
