package utils

import (
	"math/rand"
	"path/filepath"
	"strings"
)

const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

func GenerateRandomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// SafeFilename lowercases name and replaces everything but letters, digits,
// dot and dash, so it can be used as an object key or public id.
func SafeFilename(name string) string {
	name = strings.ToLower(filepath.Base(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := b.String()
	if strings.Trim(out, ".-") == "" {
		return "file"
	}
	return out
}
