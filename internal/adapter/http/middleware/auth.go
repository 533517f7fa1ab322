package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/finbook/finbook/internal/infrastructure/auth"
	"github.com/finbook/finbook/internal/infrastructure/metrics"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// ClaimsContextKey is the context key for the authenticated claims
	ClaimsContextKey ContextKey = "claims"
)

// AuthMiddleware creates an authentication middleware. The metrics handle
// may be nil.
func AuthMiddleware(jwtManager *auth.JWTManager, m *metrics.Metrics) func(http.Handler) http.Handler {
	reject := func(w http.ResponseWriter, message, reason string) {
		if m != nil {
			m.AuthAttempts.WithLabelValues("failure").Inc()
			m.AuthFailures.WithLabelValues(reason).Inc()
		}
		http.Error(w, message, http.StatusUnauthorized)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				reject(w, "missing authorization header", "missing_header")
				return
			}

			// Parse Bearer token
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				reject(w, "invalid authorization header format", "malformed_header")
				return
			}

			tokenString := parts[1]

			// Verify token
			claims, err := jwtManager.Verify(tokenString)
			if err != nil {
				reject(w, "invalid or expired token", "invalid_token")
				return
			}

			if m != nil {
				m.AuthAttempts.WithLabelValues("success").Inc()
			}

			// Add claims to context
			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaimsFromContext extracts the authenticated claims from context
func GetClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*auth.Claims)
	return claims, ok
}
