package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(now time.Time) *TokenService {
	s := NewTokenService([]byte("test-secret-test-secret-test-secret"), 7*24*time.Hour)
	s.now = func() time.Time { return now }
	return s
}

func TestIssueAndVerify_Success(t *testing.T) {
	s := newTestTokenService(time.Now())

	tok, err := s.Issue(Payload{UserID: "user-1", Email: "a@example.com"})
	require.NoError(t, err)

	got, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, Payload{UserID: "user-1", Email: "a@example.com"}, got)
}

func TestVerify_ExpiredAfterTTL(t *testing.T) {
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := newTestTokenService(issued)

	tok, err := s.Issue(Payload{UserID: "user-1", Email: "a@example.com"})
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(7*24*time.Hour - time.Minute) }
	_, err = s.Verify(tok)
	require.NoError(t, err, "token must be valid inside its window")

	s.now = func() time.Time { return issued.Add(7*24*time.Hour + time.Minute) }
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_TamperedSignature(t *testing.T) {
	s := newTestTokenService(time.Now())
	tok, err := s.Issue(Payload{UserID: "user-1", Email: "a@example.com"})
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	mid := len(sig) / 2
	if sig[mid] == 'A' {
		sig[mid] = 'B'
	} else {
		sig[mid] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = s.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := NewTokenService([]byte("right-secret"), time.Hour).Issue(Payload{UserID: "u"})
	require.NoError(t, err)

	_, err = NewTokenService([]byte("wrong-secret"), time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		Payload:          Payload{UserID: "u"},
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService([]byte("k"), time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	_, err := NewTokenService([]byte("k"), time.Hour).Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_MissingUserID(t *testing.T) {
	s := newTestTokenService(time.Now())
	tok, err := s.Issue(Payload{Email: "a@example.com"})
	require.NoError(t, err)

	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
