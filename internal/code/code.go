// Package code generates and validates house join codes.
package code

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

// Length of a house code.
const Length = 6

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// Generate returns a 6-character code drawn uniformly at random from A-Z0-9.
// Codes are shareable invite identifiers, not secrets.
func Generate() string {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}

// Valid reports whether s is exactly 6 alphanumeric characters.
func Valid(s string) bool {
	return codePattern.MatchString(s)
}

// Normalize uppercases a user-entered code so lookups are case-insensitive.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
