// Package shortcode generates the public tokens used in scan URLs.
package shortcode

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Code lengths in characters. Each hex character carries 4 bits, so the
// default length gives 2^32 possible codes; the long length is the fallback
// when the short space keeps colliding.
const (
	DefaultLength = 8
	LongLength    = 12
)

// Generate returns a random lowercase hex code of the given length.
// Length must be even.
func Generate(length int) (string, error) {
	if length <= 0 || length%2 != 0 {
		return "", fmt.Errorf("invalid short code length %d", length)
	}
	buf := make([]byte, length/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %v", err)
	}
	return hex.EncodeToString(buf), nil
}
