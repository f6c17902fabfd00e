// File: internal/domain/chat.go
package domain

import "time"

// Chat represents a single conversation shared by its participants.
// Name, Description and AvatarURL are the only fields editable after
// creation; ID and CreatedAt are fixed for the lifetime of the chat.
type Chat struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description,omitempty" gorm:"size:1024"`
	AvatarURL   string    `json:"avatarUrl,omitempty" gorm:"size:512"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ChatSummary is the listing shape: a chat annotated with the content of
// its most recent message, empty string when the chat has none.
type ChatSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	LastMessage string    `json:"lastMessage"`
	CreatedAt   time.Time `json:"createdAt"`
}
