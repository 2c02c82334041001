package nats

import (
	"strings"
	"unicode"
)

// subjectPrefix namespaces every subject this transport uses so unrelated
// traffic on a shared NATS cluster cannot collide with it.
const subjectPrefix = "lz4msgpack"

// namespace builds a NATS subject from the given parts. Empty parts are
// dropped and the rest are normalized to kebab-case.
func namespace(values ...string) string {
	parts := []string{subjectPrefix}
	for _, value := range values {
		if value == "" {
			continue
		}
		parts = append(parts, kebab(value))
	}
	return strings.Join(parts, ".")
}

func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == '_':
			b.WriteByte('-')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
