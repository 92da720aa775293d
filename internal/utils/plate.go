package utils

import (
	"strings"
	"unicode"
)

// NormalizePlate reduces a user-typed or OCR-produced plate number to
// its canonical lookup form: uppercase, letters and digits only.
func NormalizePlate(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(raw)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
