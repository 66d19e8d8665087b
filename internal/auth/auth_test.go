package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, CheckPassword("secret1", hash))
	assert.False(t, CheckPassword("secret2", hash))

	other, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes must be salted")
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73))
	require.Error(t, err)
	assert.True(t, IsPasswordTooLong(err))
}

func TestCheckLegacyPBKDF2(t *testing.T) {
	// pbkdf2_hmac("sha256", b"secret1", b"abcdefghijklmnop", 1000).hex()
	hash := "pbkdf2:sha256:1000$abcdefghijklmnop$94e92028d9731d0191d0b512198387cd98927d51cf770f85bf3dbaf00f0f858f"

	assert.True(t, CheckPassword("secret1", hash))
	assert.False(t, CheckPassword("secret2", hash))

	assert.False(t, CheckPassword("secret1", "pbkdf2:sha1:1000$abcdefghijklmnop$94e9"))
	assert.False(t, CheckPassword("secret1", "pbkdf2:sha256:x$abcdefghijklmnop$94e9"))
	assert.False(t, CheckPassword("secret1", "pbkdf2:sha256:1000$abcdefghijklmnop"))
	assert.False(t, CheckPassword("secret1", "pbkdf2:sha256:1000$abcdefghijklmnop$zz"))
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", 7*24*time.Hour)

	token, err := m.Issue("USERABC123XYZ")
	require.NoError(t, err)

	userID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "USERABC123XYZ", userID)
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager("test-secret", 7*24*time.Hour)
	m.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }

	token, err := m.Issue("USERABC123XYZ")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejected(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	_, err := m.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = m.Verify("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := NewTokenManager("other-secret", time.Hour).Issue("USERABC123XYZ")
	require.NoError(t, err)
	_, err = m.Verify(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: "USERABC123XYZ",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "USERABC123XYZ"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = m.Verify(noExpiry)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUser, err := m.Issue("")
	require.NoError(t, err)
	_, err = m.Verify(noUser)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
