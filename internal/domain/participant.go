// File: internal/domain/participant.go
package domain

import "time"

// ChatParticipant links a user to a chat and grants read/send rights.
// The composite unique index enforces at most one row per (chat, user)
// pair; the service layer still checks first so a duplicate surfaces as
// a conflict instead of a driver error.
type ChatParticipant struct {
	ID       string    `json:"id" gorm:"primaryKey;size:36"`
	ChatID   string    `json:"chatId" gorm:"size:36;not null;index;uniqueIndex:idx_chat_participant"`
	UserID   string    `json:"userId" gorm:"size:36;not null;uniqueIndex:idx_chat_participant"`
	JoinedAt time.Time `json:"joinedAt"`
}

// ParticipantInfo is the participant listing shape, joined with the user
// record for the username.
type ParticipantInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
