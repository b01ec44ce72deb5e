package middleware

import (
	"context"
	"net/http"
	"strings"

	"peacenest/internal/auth"
	"peacenest/internal/httpx"
	"peacenest/internal/models"
)

type identityKey struct{}

type AuthMiddleware struct {
	tokens *auth.TokenService
}

func NewAuthMiddleware(tokens *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth rejects requests without a bearer token (401 NO_TOKEN) or
// with one that fails verification (403 INVALID_TOKEN).
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := bearerToken(r)
		if !ok {
			httpx.APIError(w, models.NewNoTokenError())
			return
		}
		payload, err := m.tokens.Verify(tokenStr)
		if err != nil {
			httpx.APIError(w, models.NewInvalidTokenError())
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), payload)))
	})
}

// OptionalAuth attaches the identity when a valid token is present and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenStr, ok := bearerToken(r); ok {
			if payload, err := m.tokens.Verify(tokenStr); err == nil {
				r = r.WithContext(WithIdentity(r.Context(), payload))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	return tokenStr, tokenStr != ""
}

func WithIdentity(ctx context.Context, p auth.Payload) context.Context {
	return context.WithValue(ctx, identityKey{}, p)
}

func IdentityFromContext(ctx context.Context) (auth.Payload, bool) {
	p, ok := ctx.Value(identityKey{}).(auth.Payload)
	return p, ok
}
