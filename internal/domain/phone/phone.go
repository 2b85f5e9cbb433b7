// Package phone provides the single canonical phone number normalization.
//
// Inconsistent normalization across call sites is the root cause of
// duplicated conversations, so every read and write path that compares
// phone numbers must go through Normalize. Do not add variants.
package phone

import "strings"

// Normalize maps a raw phone string to its canonical comparison key: the
// digits of the number and nothing else.
//
// Leading '=' runs (an artifact of upstream templating expressions),
// whitespace, the international '+' prefix, and all formatting punctuation
// are dropped, so "+57 300-123 4567" and "573001234567" collapse to the
// same key. Normalize is idempotent and total: any input, including the
// empty string, yields a result without panicking.
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "=")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
