// Package cryptox hashes and verifies user passwords.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 16
	keySize  = 32
)

// NewSalt returns a random per-user salt.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// HashPassword derives an argon2id hash of password with salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, keySize)
}

// VerifyPassword reports whether candidate hashes to hash under salt.
// The comparison runs in constant time.
func VerifyPassword(hash, salt, candidate []byte) bool {
	return subtle.ConstantTimeCompare(hash, HashPassword(candidate, salt)) == 1
}
