// File: internal/domain/message.go
package domain

import "time"

// Message represents a single message within a chat. UserID is the
// author and sole owner for mutation purposes; CreatedAt is never
// refreshed on edit.
type Message struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	ChatID    string    `json:"chatId" gorm:"size:36;not null;index"`
	UserID    string    `json:"senderId" gorm:"size:36;not null"`
	Content   string    `json:"text" gorm:"not null"`
	CreatedAt time.Time `json:"timestamp"`
}
