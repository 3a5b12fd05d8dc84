package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Hour)

	signed, err := tokens.Issue("abc-123")
	require.NoError(t, err)

	id, err := tokens.SessionID(signed)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)
}

func TestSessionTokenRejectsForeignSecret(t *testing.T) {
	signed, err := NewSessionTokens("one", time.Hour).Issue("abc")
	require.NoError(t, err)

	_, err = NewSessionTokens("two", time.Hour).SessionID(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokenRejectsTampering(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Hour)
	signed, err := tokens.Issue("abc")
	require.NoError(t, err)

	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	forged, err := NewSessionTokens("other", time.Hour).Issue("admin-session")
	require.NoError(t, err)
	parts[1] = strings.Split(forged, ".")[1]

	_, err = tokens.SessionID(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokenExpiry(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Minute)
	start := time.Now()
	tokens.now = func() time.Time { return start }

	signed, err := tokens.Issue("abc")
	require.NoError(t, err)

	tokens.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = tokens.SessionID(signed)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestSessionTokenRejectsNoneAlgorithm(t *testing.T) {
	tokens := NewSessionTokens("secret", time.Hour)
	claims := &Claims{
		SessionID: "abc",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tokens.SessionID(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokenEmpty(t *testing.T) {
	_, err := NewSessionTokens("secret", time.Hour).SessionID("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestStaticSecret(t *testing.T) {
	a := NewStaticSecret("admin123")
	assert.True(t, a.Authenticate("admin123"))
	assert.False(t, a.Authenticate("admin1234"))
	assert.False(t, a.Authenticate(""))

	assert.False(t, NewStaticSecret("").Authenticate(""))
}

func TestHashedSecret(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	a := NewHashedSecret(string(hash))
	assert.True(t, a.Authenticate("s3cret"))
	assert.False(t, a.Authenticate("s3cre"))
}

func TestNewAdminAuthenticator(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed"), bcrypt.MinCost)
	require.NoError(t, err)

	a, err := NewAdminAuthenticator("plain", string(hash))
	require.NoError(t, err)
	assert.IsType(t, &HashedSecret{}, a)
	assert.True(t, a.Authenticate("hashed"))
	assert.False(t, a.Authenticate("plain"))

	a, err = NewAdminAuthenticator("plain", "")
	require.NoError(t, err)
	assert.True(t, a.Authenticate("plain"))

	_, err = NewAdminAuthenticator("plain", "not-a-bcrypt-hash")
	assert.Error(t, err)

	_, err = NewAdminAuthenticator("", "")
	assert.ErrorIs(t, err, ErrNoAdminSecret)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "pw"))
	assert.False(t, CheckPassword(hash, "nope"))
}
