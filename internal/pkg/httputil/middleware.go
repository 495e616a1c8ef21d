package httputil

import (
	"context"
	"net/http"
	"strings"

	"github.com/bloodhope/bloodhope-api/internal/domain"
)

// CORSMiddleware creates CORS middleware that handles preflight requests
// and adds appropriate CORS headers to responses.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	originsSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originsSet[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Check if origin is allowed
			if originsSet[origin] || originsSet["*"] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			// Handle preflight OPTIONS request
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type contextKey string

// Context keys for storing the verified identity.
const (
	EmailKey  contextKey = "email"
	ClaimsKey contextKey = "claims"
)

// TokenVerifier validates a bearer token and returns the decoded claims.
// The claims always contain the email the token was issued for.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (email string, claims map[string]interface{}, err error)
}

// RoleLookup resolves the stored role for an email.
type RoleLookup interface {
	GetUserRole(ctx context.Context, email string) (domain.Role, error)
}

// AuthMiddleware creates the credential verifier middleware. It is a pure
// validation step: no store access happens here.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				Message(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				Message(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			email, claims, err := verifier.VerifyToken(r.Context(), parts[1])
			if err != nil {
				Message(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			ctx := context.WithValue(r.Context(), EmailKey, email)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole creates the role gate middleware. It must run after
// AuthMiddleware: the caller is resolved by the verified claims email with
// one uncached point lookup per request.
func RequireRole(lookup RoleLookup, allowed ...domain.Role) func(http.Handler) http.Handler {
	allowedSet := make(map[domain.Role]bool, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := GetEmail(r.Context())
			if email == "" {
				Message(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			role, err := lookup.GetUserRole(r.Context(), email)
			if err != nil || !allowedSet[role] {
				Message(w, http.StatusForbidden, "forbidden access")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetEmail extracts the verified email from context.
func GetEmail(ctx context.Context) string {
	if email, ok := ctx.Value(EmailKey).(string); ok {
		return email
	}
	return ""
}

// GetClaims extracts the decoded token claims from context.
func GetClaims(ctx context.Context) map[string]interface{} {
	if claims, ok := ctx.Value(ClaimsKey).(map[string]interface{}); ok {
		return claims
	}
	return nil
}
