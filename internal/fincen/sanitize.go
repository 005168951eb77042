package fincen

import "strings"

// Field length caps. Free text defaults to 150 characters; addresses and
// the description/narrative fields get wider caps.
const (
	defaultTextLimit = 150
	addressTextLimit = 300
	longTextLimit    = 750
)

var entityReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// sanitize prepares free text for inclusion in the batch document. The
// pipeline is always escape, strip, trim, truncate, in that order, applied
// uniformly to every text leaf. Stripping and truncation operate on the
// escaped string; a truncation can therefore clip an entity reference in
// half. That matches the legacy filings this exporter replaces and must not
// change without a compatibility review.
func sanitize(s string, limit int) string {
	if limit <= 0 {
		limit = defaultTextLimit
	}

	escaped := entityReplacer.Replace(s)

	var b strings.Builder
	b.Grow(len(escaped))
	for _, r := range escaped {
		if r >= 0x20 && r <= 0x7e {
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSpace(b.String())
	if len(cleaned) > limit {
		cleaned = cleaned[:limit]
	}
	return cleaned
}
