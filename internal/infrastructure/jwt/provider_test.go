package jwtinfra

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/domain"
)

var sample = domain.SessionClaims{SubjectID: "u1", Email: "a@x.com", Verified: true, Purpose: domain.PurposeAuth}

func TestHS256_RoundTrip(t *testing.T) {
	p := NewHS256([]byte("secret"))

	tok, err := p.Sign(sample, 30*time.Minute)
	require.NoError(t, err)

	claims, ok := p.Verify(tok)
	require.True(t, ok)
	assert.Equal(t, sample, claims.SessionClaims)
	assert.Equal(t, "u1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestSign_UniqueIDs(t *testing.T) {
	p := NewHS256([]byte("secret"))
	a, err := p.Sign(sample, time.Minute)
	require.NoError(t, err)
	b, err := p.Sign(sample, time.Minute)
	require.NoError(t, err)

	ca, _ := p.Verify(a)
	cb, _ := p.Verify(b)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestVerify_Rejects(t *testing.T) {
	p := NewHS256([]byte("secret"))
	good, err := p.Sign(sample, time.Minute)
	require.NoError(t, err)

	expired := NewHS256([]byte("secret"))
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.Sign(sample, time.Minute)
	require.NoError(t, err)

	other, err := NewHS256([]byte("other")).Sign(sample, time.Minute)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{SessionClaims: sample}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"malformed":     "not.a.jwt",
		"empty":         "",
		"expired":       old,
		"bad signature": other,
		"alg none":      none,
		"tampered":      good[:len(good)-2] + "xx",
	} {
		t.Run(name, func(t *testing.T) {
			c, ok := p.Verify(tok)
			assert.False(t, ok)
			assert.Nil(t, c)
		})
	}
}

func writeKeyPair(t *testing.T) (string, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")
	require.NoError(t, os.WriteFile(priv, pem.EncodeToMemory(&pem.Block{
		Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key),
	}), 0o600))
	require.NoError(t, os.WriteFile(pub, pem.EncodeToMemory(&pem.Block{
		Type: "PUBLIC KEY", Bytes: pubDER,
	}), 0o600))
	return priv, pub
}

func TestNewProvider_RS256FromFiles(t *testing.T) {
	priv, pub := writeKeyPair(t)

	p, err := NewProvider(&config.Config{JWTPrivateKeyPath: priv, JWTPublicKeyPath: pub, JWTSecret: "ignored"})
	require.NoError(t, err)

	tok, err := p.Sign(sample, time.Minute)
	require.NoError(t, err)
	claims, ok := p.Verify(tok)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", claims.Email)

	// An HS256 token signed with the public key bytes must not pass RS256 verification.
	pubBytes, err := os.ReadFile(pub)
	require.NoError(t, err)
	forged, err := NewHS256(pubBytes).Sign(sample, time.Minute)
	require.NoError(t, err)
	_, ok = p.Verify(forged)
	assert.False(t, ok)
}

func TestNewProvider_Errors(t *testing.T) {
	_, err := NewProvider(&config.Config{})
	assert.Error(t, err)

	_, err = NewProvider(&config.Config{JWTPrivateKeyPath: "/nope/priv.pem", JWTPublicKeyPath: "/nope/pub.pem"})
	assert.Error(t, err)

	p, err := NewProvider(&config.Config{JWTSecret: "s"})
	require.NoError(t, err)
	assert.Equal(t, jwt.SigningMethodHS256, p.method)
}
