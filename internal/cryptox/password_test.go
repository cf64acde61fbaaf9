package cryptox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dmitrijs2005/grocer/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword([]byte("pw123456"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, bytes.Contains(hash, []byte("pw123456")), "hash must not embed the plaintext")
	assert.True(t, VerifyPassword(hash, []byte("pw123456")))
	assert.False(t, VerifyPassword(hash, []byte("pw1234567")))
}

func TestHashPassword_SaltedHashesDiffer(t *testing.T) {
	h1, err := HashPassword([]byte("same"), bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPassword([]byte("same"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestHashPassword_BadCostFallsBack(t *testing.T) {
	hash, err := HashPassword([]byte("pw"), 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost(hash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword([]byte(strings.Repeat("x", MaxPasswordBytes+1)), bcrypt.MinCost)
	require.ErrorIs(t, err, common.ErrPasswordTooLong)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword([]byte("not-a-hash"), []byte("pw")))
	assert.False(t, VerifyPassword(nil, []byte("pw")))
}

func TestRecoveryCode(t *testing.T) {
	code, digest, err := NewRecoveryCode()
	require.NoError(t, err)
	require.Len(t, code, RecoveryCodeBytes*2)

	assert.True(t, CheckRecoveryCode(digest, code))
	assert.True(t, CheckRecoveryCode(digest, "  "+strings.ToUpper(code)+"\n"))
	assert.False(t, CheckRecoveryCode(digest, code+"0"))
	assert.False(t, CheckRecoveryCode(digest, ""))
}
