package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"safety-survey-go/internal/auth"
)

const (
	msgMissingCredentials = "Authentication credentials were not provided"
	msgInvalidToken       = "Invalid or expired token"
)

type contextKey int

const claimsKey contextKey = iota

// TokenVerifier validates a bearer token and returns its identity claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AccessGate rejects mutating requests that do not carry a valid bearer
// token. Read requests pass through untouched; identity-dependent reads call
// Authenticate themselves.
type AccessGate struct {
	verifier  TokenVerifier
	allowList map[string]struct{}
}

func NewAccessGate(verifier TokenVerifier, allowedPaths ...string) *AccessGate {
	allowList := make(map[string]struct{}, len(allowedPaths))
	for _, path := range allowedPaths {
		allowList[normalizePath(path)] = struct{}{}
	}
	return &AccessGate{verifier: verifier, allowList: allowList}
}

func (g *AccessGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isMutating(r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := g.allowList[normalizePath(r.URL.Path)]; ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := g.Authenticate(r)
		if err != nil {
			if errors.Is(err, ErrMissingHeader) {
				writeAuthError(w, msgMissingCredentials)
				return
			}
			writeAuthError(w, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// ErrMissingHeader marks a request with no usable authorization header, as
// opposed to one whose token failed verification.
var ErrMissingHeader = errors.New("authorization header missing")

// Authenticate extracts and verifies the bearer token on the request. It is
// used by the middleware for mutating methods and directly by handlers whose
// GET endpoints need an identity.
func (g *AccessGate) Authenticate(r *http.Request) (*auth.Claims, error) {
	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, ErrMissingHeader
	}
	return g.verifier.Verify(token)
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func normalizePath(path string) string {
	return "/" + strings.Trim(path, "/")
}

func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
