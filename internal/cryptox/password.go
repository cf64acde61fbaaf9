// Package cryptox holds the one-way transforms used by the credential store
// and the recovery flow. Plaintext secrets never leave this package in any
// stored form.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"

	"github.com/dmitrijs2005/grocer/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

// HashPassword returns the bcrypt hash of password at the given cost.
// Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func HashPassword(password []byte, cost int) ([]byte, error) {
	if len(password) > MaxPasswordBytes {
		return nil, common.ErrPasswordTooLong
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return bcrypt.GenerateFromPassword(password, cost)
}

// VerifyPassword recomputes the hash of candidate and compares it to hash.
// Any error (malformed hash included) counts as a mismatch.
func VerifyPassword(hash, candidate []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, candidate) == nil
}

// RecoveryCodeBytes is the entropy of a recovery code before hex encoding.
const RecoveryCodeBytes = 6

// NewRecoveryCode returns a one-time code for the hardened recovery flow and
// the digest that should be kept instead of the code.
func NewRecoveryCode() (code string, digest []byte, err error) {
	code, err = common.MakeRandHexString(RecoveryCodeBytes)
	if err != nil {
		return "", nil, err
	}
	return code, DigestRecoveryCode(code), nil
}

// DigestRecoveryCode normalizes case and surrounding whitespace, then hashes.
func DigestRecoveryCode(code string) []byte {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(code))))
	return sum[:]
}

// CheckRecoveryCode compares candidate with a stored digest in constant time.
func CheckRecoveryCode(digest []byte, candidate string) bool {
	return subtle.ConstantTimeCompare(digest, DigestRecoveryCode(candidate)) == 1
}
