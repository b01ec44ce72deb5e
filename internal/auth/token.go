package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Payload is the identity carried inside a token.
type Payload struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
}

// Claims wraps the payload with the registered exp/iat claims.
type Claims struct {
	Payload
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens. Tokens are stateless and
// cannot be revoked before they expire.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}
}

func (s *TokenService) Issue(p Payload) (string, error) {
	now := s.now()
	claims := Claims{
		Payload: p,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) Verify(tokenStr string) (Payload, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Payload{}, ErrInvalidToken
	}
	if claims.UserID == "" {
		return Payload{}, ErrInvalidToken
	}
	return claims.Payload, nil
}
