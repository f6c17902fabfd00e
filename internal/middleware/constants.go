// File: internal/middleware/constants.go
package middleware

// Context keys for middleware communication.
type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
)
