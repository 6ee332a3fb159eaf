package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/studiostorm/server/internal/models"
	"github.com/studiostorm/server/internal/services"
)

type contextKey string

const (
	// UserContextKey holds the authenticated *models.User
	UserContextKey contextKey = "user"
)

// GetUserFromContext retrieves the authenticated user, if any
func GetUserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: message})
}

// bearerToken extracts the token from an "Authorization: Bearer x" header
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireAuth creates middleware requiring a valid bearer token. The
// resolved account is placed on the request context.
func RequireAuth(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required.")
				return
			}

			claims, err := authService.ValidateToken(token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token.")
				return
			}

			user, err := authService.GetUser(r.Context(), claims)
			if err != nil {
				writeAuthError(w, http.StatusInternalServerError, "Internal server error.")
				return
			}
			if user == nil {
				writeAuthError(w, http.StatusUnauthorized, "User not found.")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin creates middleware requiring a valid bearer token for an
// admin account
func RequireAdmin(authService *services.AuthService) func(http.Handler) http.Handler {
	requireAuth := RequireAuth(authService)
	return func(next http.Handler) http.Handler {
		return requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil || !user.IsAdmin() {
				writeAuthError(w, http.StatusForbidden, "Admin access required.")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// OptionalAuth resolves a bearer token when present but never rejects the
// request. Used on public gallery routes where an assigned client account
// bypasses the gallery password.
func OptionalAuth(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.ValidateToken(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.GetUser(r.Context(), claims)
			if err != nil || user == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
