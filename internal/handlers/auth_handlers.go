// File: internal/handlers/auth_handlers.go
package handlers

import (
	"net/http"

	"github.com/mobile-messenger/backend/internal/dtos"
	"github.com/mobile-messenger/backend/internal/services/user_services"
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	UserService *user_services.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *user_services.UserService) *AuthHandler {
	return &AuthHandler{UserService: service}
}

// Register handles new account creation.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.FromUser(*user))
}

// Login verifies credentials and issues a signed token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, user, err := h.UserService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.LoginResponse{
		Token: token,
		User:  dtos.FromUser(*user),
	})
}

// Logout acknowledges the request. Tokens are stateless, so the client
// simply discards its copy; nothing is revoked server-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// SearchUsers returns accounts whose username contains the name term.
func (h *AuthHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("name")

	users, err := h.UserService.SearchUsers(r.Context(), term, limitQuery(r, 0))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
