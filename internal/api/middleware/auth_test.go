package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	publicKeyDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)
	publicKeyPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicKeyDER})
	return privateKey, string(publicKeyPEM)
}

func signedToken(t *testing.T, key *rsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	privateKey, publicKeyPEM := testKeyPair(t)
	cfg := AuthConfig{
		JWTPublicKey: publicKeyPEM,
		APIKeys:      []string{"key-1", "key-2"},
	}

	t.Run("missing header", func(t *testing.T) {
		result := Authenticate("", cfg)
		assert.False(t, result.Success)
		assert.ErrorContains(t, result.Error, "missing Authorization header")
	})

	t.Run("malformed header", func(t *testing.T) {
		result := Authenticate("Bearer", cfg)
		assert.False(t, result.Success)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		result := Authenticate("Basic dXNlcjpwYXNz", cfg)
		assert.False(t, result.Success)
		assert.ErrorContains(t, result.Error, "unsupported authorization type")
	})

	t.Run("valid API key", func(t *testing.T) {
		result := Authenticate("ApiKey key-2", cfg)
		assert.True(t, result.Success)
		assert.Equal(t, AuthTypeAPIKey, result.AuthType)
		assert.Empty(t, result.AuthSubject)
	})

	t.Run("invalid API key", func(t *testing.T) {
		result := Authenticate("ApiKey wrong", cfg)
		assert.False(t, result.Success)
	})

	t.Run("valid bearer token carries the subject", func(t *testing.T) {
		token := signedToken(t, privateKey, jwt.RegisteredClaims{
			Subject:   "0xAaAa000000000000000000000000000000000001",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		result := Authenticate("Bearer "+token, cfg)
		assert.True(t, result.Success)
		assert.Equal(t, AuthTypeJWT, result.AuthType)
		assert.Equal(t, "0xAaAa000000000000000000000000000000000001", result.AuthSubject)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token := signedToken(t, privateKey, jwt.RegisteredClaims{
			Subject:   "0xAaAa000000000000000000000000000000000001",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		})
		result := Authenticate("Bearer "+token, cfg)
		assert.False(t, result.Success)
	})

	t.Run("token signed by another key is rejected", func(t *testing.T) {
		otherKey, _ := testKeyPair(t)
		token := signedToken(t, otherKey, jwt.RegisteredClaims{
			Subject:   "0xAaAa000000000000000000000000000000000001",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		result := Authenticate("Bearer "+token, cfg)
		assert.False(t, result.Success)
	})

	t.Run("bearer without configured public key", func(t *testing.T) {
		token := signedToken(t, privateKey, jwt.RegisteredClaims{Subject: "x"})
		result := Authenticate("Bearer "+token, AuthConfig{APIKeys: []string{"key-1"}})
		assert.False(t, result.Success)
	})
}

func TestParseRSAPublicKey(t *testing.T) {
	_, publicKeyPEM := testKeyPair(t)

	t.Run("valid PKIX key", func(t *testing.T) {
		key, err := parseRSAPublicKey(publicKeyPEM)
		require.NoError(t, err)
		assert.NotNil(t, key)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := parseRSAPublicKey("not a pem block")
		assert.Error(t, err)
	})
}
