// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mobile-messenger/backend/internal/domain"
	"github.com/mobile-messenger/backend/internal/validation"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if message.ID == "" {
		message.ID = validation.NewID()
	}
	message.CreatedAt = time.Now().UTC()

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		log.Printf("[MessageRepository] database error creating message for chat %s: %v", message.ChatID, err)
		return nil, err
	}
	return message, nil
}

// FindByIDInChat looks a message up scoped to its chat, so a valid
// message id paired with the wrong chat reads as not found.
func (r *gormMessageRepository) FindByIDInChat(ctx context.Context, chatID, messageID string) (*domain.Message, error) {
	var message domain.Message
	err := r.db.WithContext(ctx).
		Where("id = ? AND chat_id = ?", messageID, chatID).
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		log.Printf("[MessageRepository] database error finding message %s in chat %s: %v", messageID, chatID, err)
		return nil, err
	}
	return &message, nil
}

func (r *gormMessageRepository) FindRecentByChatID(ctx context.Context, chatID string, limit int) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] database error fetching messages for chat %s: %v", chatID, err)
		return nil, err
	}
	return messages, nil
}

// UpdateContent mutates the content column only; created_at is not
// refreshed on edit.
func (r *gormMessageRepository) UpdateContent(ctx context.Context, messageID, content string) (*domain.Message, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ?", messageID).
		Update("content", content)
	if result.Error != nil {
		log.Printf("[MessageRepository] database error updating message %s: %v", messageID, result.Error)
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrMessageNotFound
	}

	var message domain.Message
	if err := r.db.WithContext(ctx).Where("id = ?", messageID).First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *gormMessageRepository) Delete(ctx context.Context, messageID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", messageID).
		Delete(&domain.Message{})
	if result.Error != nil {
		log.Printf("[MessageRepository] database error deleting message %s: %v", messageID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
