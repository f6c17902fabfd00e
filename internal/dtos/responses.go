// File: internal/dtos/responses.go
package dtos

import (
	"time"

	"github.com/samber/lo"

	"github.com/mobile-messenger/backend/internal/domain"
)

// UserResponse exposes the public view of an account. Password hashes
// never leave the domain layer.
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ChatResponse is the full view of a single chat.
type ChatResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// FromUser maps a domain.User to its public response shape.
func FromUser(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// MessageResponse is the wire shape of a message: stored "content"
// goes out as "text".
type MessageResponse struct {
	ID        string `json:"id"`
	ChatID    string `json:"chatId"`
	SenderID  string `json:"senderId"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// FromMessage maps a domain.Message to its response shape.
func FromMessage(m domain.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.UserID,
		Text:      m.Content,
		Timestamp: m.CreatedAt.Format(time.RFC3339),
	}
}

// FromMessages maps a message history slice to response shapes,
// preserving order.
func FromMessages(messages []domain.Message) []MessageResponse {
	return lo.Map(messages, func(m domain.Message, _ int) MessageResponse {
		return FromMessage(m)
	})
}

// FromChat maps a domain.Chat to its response shape.
func FromChat(c domain.Chat) ChatResponse {
	return ChatResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		AvatarURL:   c.AvatarURL,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}
