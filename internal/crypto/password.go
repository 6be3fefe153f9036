// Package crypto derives and checks account credentials with Argon2id.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// SaltLen is the length of the per-account salt stored next to the hash.
const SaltLen = 16

// Argon2id parameters. Server-side only; clients never see a hash.
const (
	argonTime    uint32 = 3
	argonMemory  uint32 = 64 * 1024 // KiB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32
)

// NewSalt returns a fresh random salt for one account's credentials.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// HashPassword derives the credential hash stored on the account row.
func HashPassword(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyPassword checks a login attempt against the account's stored salt
// and hash in constant time.
func VerifyPassword(password string, salt, hash []byte) bool {
	got := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(got, hash) == 1
}
