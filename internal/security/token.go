package security

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

var errNegativeLength = errors.New("length must be positive")

// SessionToken returns an opaque URL-safe bearer token with byteLength
// bytes of entropy.
func SessionToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", errNegativeLength
	}
	raw := make([]byte, byteLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// HexToken returns a hex-encoded random token, used for activation and
// password-reset links.
func HexToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", errNegativeLength
	}
	raw := make([]byte, byteLength)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
