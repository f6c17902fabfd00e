// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/mobile-messenger/backend/internal/auth"
)

// NewJWTMiddleware validates the bearer token on every request and
// injects the caller's user ID into the request context. Requests
// without a verifiable identity never reach a handler: no operation may
// run with an empty caller id.
func NewJWTMiddleware(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				writeAuthError(w, "user is not authenticated or token is invalid")
				return
			}

			userID, err := auth.ValidateToken(token, secretKey)
			if err != nil || userID == "" {
				log.Printf("[AuthMiddleware] invalid token: %v", err)
				writeAuthError(w, "user is not authenticated or token is invalid")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the caller identity placed by the JWT
// middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
