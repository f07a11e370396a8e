package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// tokenBytes gives 256 bits of entropy, encoded to 64 hex characters.
const tokenBytes = 32

// Generate returns a new opaque verification token.
func Generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ShortCode derives a human-enterable code from a token: its first six
// characters, uppercased. Used as the SMS verification code.
func ShortCode(tok string) string {
	if len(tok) < 6 {
		return strings.ToUpper(tok)
	}
	return strings.ToUpper(tok[:6])
}
