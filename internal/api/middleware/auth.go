package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/example/stockledger/internal/auth"
	"github.com/example/stockledger/internal/model"
)

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// ExtractToken extracts JWT token from cookie or Authorization header
func ExtractToken(r *http.Request) string {
	// Try cookie first (for browser)
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	// Fall back to Authorization header (for API clients)
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

type contextKey string

const (
	UserContextKey contextKey = "user"
)

// RoleSource resolves a role id to its permission set.
type RoleSource interface {
	GetByID(ctx context.Context, id string) (*model.Role, error)
}

// Protect validates JWT tokens and adds user claims to context
func Protect(jwtService *auth.JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := ExtractToken(r)
			if tokenString == "" {
				respondError(w, "Not authorized, no token", http.StatusUnauthorized)
				return
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				respondError(w, "Not authorized, token failed", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission checks that the caller's role includes the given
// permission string. The lookup happens per request so permission edits
// take effect without re-issuing tokens.
func RequirePermission(roles RoleSource, permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(UserContextKey).(*auth.Claims)
			if !ok {
				respondError(w, "Not authorized, no token", http.StatusUnauthorized)
				return
			}

			role, err := roles.GetByID(r.Context(), claims.RoleID)
			if err != nil {
				respondError(w, "Not authorized, role not found", http.StatusForbidden)
				return
			}

			for _, p := range role.Permissions {
				if p == permission {
					next.ServeHTTP(w, r)
					return
				}
			}

			respondError(w, "Not authorized, insufficient permissions", http.StatusForbidden)
		})
	}
}

// GetUserFromContext retrieves user claims from the request context
func GetUserFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*auth.Claims)
	return claims, ok
}

// GetUserID is a helper to get just the user ID from context
func GetUserID(ctx context.Context) string {
	claims, ok := GetUserFromContext(ctx)
	if !ok {
		return ""
	}
	return claims.UserID
}

// IsPrivileged reports whether the caller holds the admin role.
func IsPrivileged(ctx context.Context) bool {
	claims, ok := GetUserFromContext(ctx)
	if !ok {
		return false
	}
	return claims.RoleName == auth.AdminRoleName
}
