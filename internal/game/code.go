package game

import (
	"math/rand"
	"strings"
)

const (
	codeLength  = 6
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewCode generates a 6-character uppercase alphanumeric game code.
func NewCode() string {
	var b strings.Builder
	b.Grow(codeLength)
	for i := 0; i < codeLength; i++ {
		b.WriteByte(codeCharset[rand.Intn(len(codeCharset))])
	}
	return b.String()
}

// NormalizeCode canonicalizes a user-supplied game code. User codes may be
// any non-empty string; only trimming and case are normalized.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
