package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Two credential formats coexist in the user table: a legacy unsalted
// SHA-256 hex digest carried over from old installations, and a modern
// argon2i hash in PHC string form. The format is detected by the leading
// '$' of the PHC encoding.

var ErrMalformedHash = errors.New("malformed password hash")

type Argon2Params struct {
	Memory     uint32
	Time       uint32
	Threads    uint8
	SaltLength uint32
	KeyLength  uint32
}

func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:     64 * 1024,
		Time:       3,
		Threads:    2,
		SaltLength: 16,
		KeyLength:  32,
	}
}

// HashPassword derives an argon2i hash with a fresh random salt and encodes
// it as a self-describing PHC string.
func HashPassword(plain string, params Argon2Params) (string, error) {
	salt := make([]byte, params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.Key([]byte(plain), salt, params.Time, params.Memory, params.Threads, params.KeyLength)

	encoded := fmt.Sprintf("$argon2i$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		params.Memory, params.Time, params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// VerifyPassword checks plain against a stored credential of either format.
func VerifyPassword(plain string, stored string) bool {
	if !strings.HasPrefix(stored, "$") {
		return verifyLegacy(plain, stored)
	}

	params, salt, key, err := decodeHash(stored)
	if err != nil {
		return false
	}

	derived := argon2.Key([]byte(plain), salt, params.Time, params.Memory, params.Threads, params.KeyLength)
	return subtle.ConstantTimeCompare(derived, key) == 1
}

// NeedsRehash reports whether a credential should be upgraded: legacy
// digests always, argon2 hashes whose parameters fall below the configured
// minimum.
func NeedsRehash(stored string, params Argon2Params) bool {
	if !strings.HasPrefix(stored, "$") {
		return true
	}

	storedParams, salt, key, err := decodeHash(stored)
	if err != nil {
		return true
	}

	return storedParams.Memory < params.Memory ||
		storedParams.Time < params.Time ||
		storedParams.Threads < params.Threads ||
		uint32(len(salt)) < params.SaltLength ||
		uint32(len(key)) < params.KeyLength
}

// LegacyDigest computes the legacy credential form of a plaintext. Kept
// exported for fixtures and for the fixed guest token.
func LegacyDigest(plain string) string {
	digest := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(digest[:])
}

func verifyLegacy(plain string, stored string) bool {
	digest := LegacyDigest(plain)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(stored)) == 1
}

func decodeHash(stored string) (Argon2Params, []byte, []byte, error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 6 || parts[1] != "argon2i" {
		return Argon2Params{}, nil, nil, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Argon2Params{}, nil, nil, ErrMalformedHash
	}

	var params Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Threads); err != nil {
		return Argon2Params{}, nil, nil, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Argon2Params{}, nil, nil, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return Argon2Params{}, nil, nil, ErrMalformedHash
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))
	return params, salt, key, nil
}
