package domain

import (
	"math/rand/v2"
	"strings"
)

const (
	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits       = "0123456789"
)

// NewPackageCode returns a display code such as "PBF-JT-123".
// Codes are labels, not keys: two packages may share one.
func NewPackageCode() string {
	var b strings.Builder
	b.Grow(10)
	b.WriteByte('P')
	pick(&b, upperLetters, 2)
	b.WriteString("-JT-")
	pick(&b, digits, 3)
	return b.String()
}

// NewDriverCode returns a display code such as "D23-34-ABC".
func NewDriverCode() string {
	var b strings.Builder
	b.Grow(10)
	b.WriteByte('D')
	pick(&b, digits, 2)
	b.WriteString("-34-")
	pick(&b, upperLetters, 3)
	return b.String()
}

func pick(b *strings.Builder, alphabet string, n int) {
	for range n {
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
}
