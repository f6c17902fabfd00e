// File: internal/handlers/message_handler.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mobile-messenger/backend/internal/dtos"
	"github.com/mobile-messenger/backend/internal/middleware"
	"github.com/mobile-messenger/backend/internal/services"
)

// MessageHandler holds the dependencies for message handlers.
type MessageHandler struct {
	MessageService *services.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(ms *services.MessageService) *MessageHandler {
	return &MessageHandler{MessageService: ms}
}

// GetMessages returns the newest messages of a chat, most recent first.
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	chatID := mux.Vars(r)["chatId"]
	messages, err := h.MessageService.GetMessages(r.Context(), chatID, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromMessages(messages))
}

// SendMessage posts a message to a chat on behalf of the caller.
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.SendMessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	chatID := mux.Vars(r)["chatId"]
	message, err := h.MessageService.SendMessage(r.Context(), chatID, userID, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.FromMessage(*message))
}

// EditMessage replaces the body of a message the caller authored.
func (h *MessageHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.EditMessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	message, err := h.MessageService.EditMessage(r.Context(), vars["chatId"], vars["messageId"], userID, req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.FromMessage(*message))
}

// DeleteMessage removes a message the caller authored.
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	if err := h.MessageService.DeleteMessage(r.Context(), vars["chatId"], vars["messageId"], userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "message deleted"})
}
