// File: internal/handlers/chat_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mobile-messenger/backend/internal/dtos"
	"github.com/mobile-messenger/backend/internal/middleware"
	"github.com/mobile-messenger/backend/internal/services"
)

// ChatHandler holds the dependencies for chat and participant handlers.
type ChatHandler struct {
	ChatService *services.ChatService
	ListLimit   int
}

// NewChatHandler creates a new ChatHandler. listLimit is the fallback
// page size when the request carries no usable limit parameter.
func NewChatHandler(cs *services.ChatService, listLimit int) *ChatHandler {
	return &ChatHandler{ChatService: cs, ListLimit: listLimit}
}

// limitQuery reads the limit query parameter, falling back when it is
// absent or not a positive integer.
func limitQuery(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

// CreateChat opens a new chat with the caller as its founding participant.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.CreateChatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	chat, err := h.ChatService.CreateChat(r.Context(), req.Name, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.FromChat(*chat))
}

// ListChats returns the most recently created chats.
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.ChatService.ListChats(r.Context(), limitQuery(r, h.ListLimit))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

// ListMyChats returns the chats the caller participates in.
func (h *ChatHandler) ListMyChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	chats, err := h.ChatService.ListUserChats(r.Context(), userID, limitQuery(r, h.ListLimit))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

// EditChat updates the mutable attributes of a chat.
func (h *ChatHandler) EditChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.EditChatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	chatID := mux.Vars(r)["chatId"]
	if err := h.ChatService.EditChat(r.Context(), chatID, userID, req.Fields()); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "chat updated"})
}

// DeleteChat removes a chat together with its messages and participants.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	chatID := mux.Vars(r)["chatId"]
	if err := h.ChatService.DeleteChat(r.Context(), chatID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "chat deleted"})
}

// GetParticipants lists the members of a chat.
func (h *ChatHandler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	participants, err := h.ChatService.GetChatParticipants(r.Context(), chatID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, participants)
}

// AddParticipant invites another user into a chat.
func (h *ChatHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.AddParticipantRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	chatID := mux.Vars(r)["chatId"]
	if err := h.ChatService.AddParticipant(r.Context(), chatID, req.UserID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "participant added"})
}

// RemoveParticipant removes a member from a chat. Members may remove
// themselves or any other member.
func (h *ChatHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	chatID, targetID := vars["chatId"], vars["userId"]
	if err := h.ChatService.RemoveParticipant(r.Context(), chatID, targetID, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "participant removed"})
}
