// Package secret generates, hashes and verifies shared admin secrets.
package secret

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for newly hashed secrets.
const (
	Argon2Time        = 2
	Argon2Memory      = 16384 // KiB
	Argon2Parallelism = 2
	Argon2KeyLen      = 32
	SaltLen           = 16

	hashPrefix = "$argon2id$"
)

// DefaultLength is the default generated secret length in bytes.
const DefaultLength = 24

// Generate returns a random URL-safe secret of length random bytes.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash returns an argon2id PHC string:
// $argon2id$v=19$m=16384,t=2,p=2$<salt>$<hash>
func Hash(plain string) (string, error) {
	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(plain), salt, Argon2Time, Argon2Memory, Argon2Parallelism, Argon2KeyLen)
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		hashPrefix, argon2.Version, Argon2Memory, Argon2Time, Argon2Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// IsHashed reports whether stored looks like an argon2id PHC string.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, hashPrefix)
}

// Verify compares candidate against stored, which may be plaintext or an
// argon2id hash. Plaintext comparison is exact and case-sensitive.
func Verify(candidate, stored string) bool {
	if IsHashed(stored) {
		return verifyArgon2(candidate, stored)
	}
	// Hash both sides so the comparison does not leak the stored length.
	a := sha256.Sum256([]byte(candidate))
	b := sha256.Sum256([]byte(stored))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

func verifyArgon2(candidate, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return false
	}

	computed := argon2.IDKey([]byte(candidate), salt, iterations, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1
}
