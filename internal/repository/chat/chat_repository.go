// File: internal/repository/chat/chat_repository.go
package chat

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mobile-messenger/backend/internal/domain"
	"github.com/mobile-messenger/backend/internal/validation"
)

var ErrChatNotFound = errors.New("chat not found")
var ErrParticipantNotFound = errors.New("participant not found")

// lastMessageSelect annotates each chat row with the content of its most
// recent message. COALESCE keeps the listing shape stable for chats that
// have no messages yet.
const lastMessageSelect = `chats.id, chats.name, chats.created_at, ` +
	`COALESCE((SELECT content FROM messages WHERE messages.chat_id = chats.id ` +
	`ORDER BY messages.created_at DESC LIMIT 1), '') AS last_message`

type gormChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

// CreateWithFounder inserts the chat row and its founding participant row
// as a single transaction. On any failure both inserts are rolled back;
// a chat without a founder must never be observable.
func (r *gormChatRepository) CreateWithFounder(ctx context.Context, chat *domain.Chat, founderID string) (*domain.Chat, error) {
	if chat.ID == "" {
		chat.ID = validation.NewID()
	}
	now := time.Now().UTC()
	chat.CreatedAt = now

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return err
		}
		founder := &domain.ChatParticipant{
			ID:       validation.NewID(),
			ChatID:   chat.ID,
			UserID:   founderID,
			JoinedAt: now,
		}
		return tx.Create(founder).Error
	})
	if err != nil {
		log.Printf("[ChatRepository] transaction failed creating chat for user %s: %v", founderID, err)
		return nil, err
	}
	return chat, nil
}

func (r *gormChatRepository) FindByID(ctx context.Context, chatID string) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.db.WithContext(ctx).Where("id = ?", chatID).First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		log.Printf("[ChatRepository] database error finding chat %s: %v", chatID, err)
		return nil, err
	}
	return &chat, nil
}

func (r *gormChatRepository) ListRecent(ctx context.Context, limit int) ([]domain.ChatSummary, error) {
	var summaries []domain.ChatSummary
	err := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Select(lastMessageSelect).
		Order("chats.created_at DESC").
		Limit(limit).
		Scan(&summaries).Error
	if err != nil {
		log.Printf("[ChatRepository] database error listing chats: %v", err)
		return nil, err
	}
	return summaries, nil
}

func (r *gormChatRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]domain.ChatSummary, error) {
	var summaries []domain.ChatSummary
	err := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Select(lastMessageSelect).
		Joins("JOIN chat_participants ON chat_participants.chat_id = chats.id").
		Where("chat_participants.user_id = ?", userID).
		Order("chats.created_at DESC").
		Limit(limit).
		Scan(&summaries).Error
	if err != nil {
		log.Printf("[ChatRepository] database error listing chats for user %s: %v", userID, err)
		return nil, err
	}
	return summaries, nil
}

// UpdateFields applies an already-whitelisted column map to the chat row.
func (r *gormChatRepository) UpdateFields(ctx context.Context, chatID string, fields map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", chatID).
		Updates(fields)
	if result.Error != nil {
		log.Printf("[ChatRepository] database error updating chat %s: %v", chatID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}

// DeleteCascade removes all messages, all participant rows, then the chat
// row itself in one transaction. The order matters for referential
// consistency; no concurrent reader may observe a partial teardown.
func (r *gormChatRepository) DeleteCascade(ctx context.Context, chatID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteChatRows(tx, chatID)
	})
	if err != nil {
		log.Printf("[ChatRepository] transaction failed deleting chat %s: %v", chatID, err)
	}
	return err
}

func deleteChatRows(tx *gorm.DB, chatID string) error {
	if err := tx.Where("chat_id = ?", chatID).Delete(&domain.Message{}).Error; err != nil {
		return err
	}
	if err := tx.Where("chat_id = ?", chatID).Delete(&domain.ChatParticipant{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", chatID).Delete(&domain.Chat{}).Error
}

func (r *gormChatRepository) AddParticipant(ctx context.Context, participant *domain.ChatParticipant) error {
	if participant.ID == "" {
		participant.ID = validation.NewID()
	}
	if participant.JoinedAt.IsZero() {
		participant.JoinedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(participant).Error; err != nil {
		log.Printf("[ChatRepository] database error adding participant to chat %s: %v", participant.ChatID, err)
		return err
	}
	return nil
}

// RemoveParticipant deletes exactly one membership row. When
// deleteChatWhenEmpty is set and the removed row was the last one, the
// whole chat is torn down inside the same transaction.
func (r *gormChatRepository) RemoveParticipant(ctx context.Context, chatID, userID string, deleteChatWhenEmpty bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("chat_id = ? AND user_id = ?", chatID, userID).
			Delete(&domain.ChatParticipant{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrParticipantNotFound
		}
		if !deleteChatWhenEmpty {
			return nil
		}

		var remaining int64
		if err := tx.Model(&domain.ChatParticipant{}).Where("chat_id = ?", chatID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining > 0 {
			return nil
		}
		return deleteChatRows(tx, chatID)
	})
	if err != nil && !errors.Is(err, ErrParticipantNotFound) {
		log.Printf("[ChatRepository] database error removing participant %s from chat %s: %v", userID, chatID, err)
	}
	return err
}

func (r *gormChatRepository) IsParticipant(ctx context.Context, chatID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	if err != nil {
		log.Printf("[ChatRepository] database error checking membership for chat %s: %v", chatID, err)
		return false, err
	}
	return count > 0, nil
}

func (r *gormChatRepository) ListParticipants(ctx context.Context, chatID string) ([]domain.ParticipantInfo, error) {
	var participants []domain.ParticipantInfo
	err := r.db.WithContext(ctx).
		Model(&domain.ChatParticipant{}).
		Select("users.id, users.username").
		Joins("JOIN users ON users.id = chat_participants.user_id").
		Where("chat_participants.chat_id = ?", chatID).
		Order("users.username ASC").
		Scan(&participants).Error
	if err != nil {
		log.Printf("[ChatRepository] database error listing participants for chat %s: %v", chatID, err)
		return nil, err
	}
	return participants, nil
}
