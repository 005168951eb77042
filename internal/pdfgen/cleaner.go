package pdfgen

import "strings"

// maxFieldValueLen caps any value written into a template field.
const maxFieldValueLen = 500

// asciiReplacer maps common typographic characters to ASCII equivalents so
// template fields render with the standard PDF fonts.
var asciiReplacer = strings.NewReplacer(
	"‘", "'",
	"’", "'",
	"“", `"`,
	"”", `"`,
	"–", "-",
	"—", "-",
	"…", "...",
	" ", " ",
)

// cleanFieldValue makes a value safe for a PDF form field: normalize smart
// punctuation, drop everything outside printable ASCII, trim, and cap the
// length.
func cleanFieldValue(s string) string {
	s = asciiReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0x20 && r <= 0x7e {
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSpace(b.String())
	if len(cleaned) > maxFieldValueLen {
		cleaned = cleaned[:maxFieldValueLen]
	}
	return cleaned
}
