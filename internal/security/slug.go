package security

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Slugify lowercases s and joins its alphanumeric runs with single dashes.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
