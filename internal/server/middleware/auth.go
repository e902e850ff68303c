// Package middleware provides HTTP middleware for authentication and authorization.
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jonathan/recruit-tracker/internal/dashboard"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// identityKey is the context key for storing the authenticated operator.
const identityKey ContextKey = "identity"

// TokenValidator is an interface for validating JWT tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (IdentityGetter, error)
}

// IdentityGetter is an interface for extracting the operator from token claims.
type IdentityGetter interface {
	GetIdentity() dashboard.Identity
}

// AuthMiddleware creates middleware that validates bearer tokens and adds
// the operator identity to the request context.
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				deny(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				deny(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			identity := claims.GetIdentity()
			if !identity.Role.Valid() {
				deny(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireWriter rejects operators whose role cannot modify tables.
// It must run after AuthMiddleware.
func RequireWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := GetIdentity(r)
		if err != nil {
			deny(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !identity.Role.CanWrite() {
			deny(w, http.StatusForbidden, fmt.Sprintf("role %s cannot modify data", identity.Role))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from a case-insensitive "Bearer" header.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// WithIdentity returns a context carrying identity.
func WithIdentity(ctx context.Context, identity dashboard.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity extracts the authenticated operator from the request context.
func GetIdentity(r *http.Request) (dashboard.Identity, error) {
	identity, ok := r.Context().Value(identityKey).(dashboard.Identity)
	if !ok {
		return dashboard.Identity{}, fmt.Errorf("identity not found in request context")
	}
	return identity, nil
}
