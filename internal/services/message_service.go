// File: internal/services/message_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mobile-messenger/backend/internal/apperrors"
	"github.com/mobile-messenger/backend/internal/domain"
	"github.com/mobile-messenger/backend/internal/repository/chat"
	"github.com/mobile-messenger/backend/internal/repository/message"
	"github.com/mobile-messenger/backend/internal/validation"
)

// MessageHistoryLimit caps how many messages a single history read
// returns.
const MessageHistoryLimit = 100

type MessageService struct {
	messageRepo message.MessageRepository
	chatRepo    chat.ChatRepository
	logger      Logger
}

func NewMessageService(messageRepo message.MessageRepository, chatRepo chat.ChatRepository, logger Logger) (*MessageService, error) {
	if messageRepo == nil {
		return nil, errors.New("message repository is required")
	}
	if chatRepo == nil {
		return nil, errors.New("chat repository is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	return &MessageService{messageRepo: messageRepo, chatRepo: chatRepo, logger: logger}, nil
}

// SendMessage persists a message authored by authorID. Membership is
// checked at send time; it is not re-validated retroactively.
func (s *MessageService) SendMessage(ctx context.Context, chatID, authorID, content string) (*domain.Message, error) {
	const op = "send_message"

	if !validation.IsValidID(chatID) || !validation.IsValidID(authorID) {
		return nil, apperrors.NewInvalidInput(op, "invalid ID format")
	}

	member, err := s.chatRepo.IsParticipant(ctx, chatID, authorID)
	if err != nil {
		return nil, apperrors.NewStorage(op, err)
	}
	if !member {
		return nil, apperrors.NewForbidden(op, "user is not a participant of this chat")
	}

	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewInvalidInput(op, "message content cannot be empty")
	}

	created, err := s.messageRepo.Create(ctx, &domain.Message{
		ChatID:  chatID,
		UserID:  authorID,
		Content: content,
	})
	if err != nil {
		return nil, apperrors.NewStorage(op, err)
	}

	s.logger.Info("message sent", "chat_id", chatID, "message_id", created.ID)
	return created, nil
}

func (s *MessageService) GetMessages(ctx context.Context, chatID, callerID string) ([]domain.Message, error) {
	const op = "get_messages"

	if !validation.IsValidID(chatID) || !validation.IsValidID(callerID) {
		return nil, apperrors.NewInvalidInput(op, "invalid ID format")
	}

	member, err := s.chatRepo.IsParticipant(ctx, chatID, callerID)
	if err != nil {
		return nil, apperrors.NewStorage(op, err)
	}
	if !member {
		return nil, apperrors.NewForbidden(op, "access denied")
	}

	messages, err := s.messageRepo.FindRecentByChatID(ctx, chatID, MessageHistoryLimit)
	if err != nil {
		return nil, apperrors.NewStorage(op, err)
	}
	return messages, nil
}

// DeleteMessage removes one message. Ownership, not chat membership,
// gates deletion: only the author may remove their message.
func (s *MessageService) DeleteMessage(ctx context.Context, chatID, messageID, callerID string) error {
	const op = "delete_message"

	owned, err := s.findOwned(ctx, op, chatID, messageID, callerID)
	if err != nil {
		return err
	}

	if err := s.messageRepo.Delete(ctx, owned.ID); err != nil {
		if errors.Is(err, message.ErrMessageNotFound) {
			return apperrors.NewNotFound(op, "message not found")
		}
		return apperrors.NewStorage(op, err)
	}

	s.logger.Info("message deleted", "chat_id", chatID, "message_id", messageID)
	return nil
}

// EditMessage replaces the content of an owned message in place. The
// creation timestamp is untouched; there is no separate edited marker.
func (s *MessageService) EditMessage(ctx context.Context, chatID, messageID, callerID, newContent string) (*domain.Message, error) {
	const op = "edit_message"

	if strings.TrimSpace(newContent) == "" {
		return nil, apperrors.NewInvalidInput(op, "message content cannot be empty")
	}

	owned, err := s.findOwned(ctx, op, chatID, messageID, callerID)
	if err != nil {
		return nil, err
	}

	updated, err := s.messageRepo.UpdateContent(ctx, owned.ID, newContent)
	if err != nil {
		if errors.Is(err, message.ErrMessageNotFound) {
			return nil, apperrors.NewNotFound(op, "message not found")
		}
		return nil, apperrors.NewStorage(op, err)
	}

	s.logger.Info("message updated", "chat_id", chatID, "message_id", messageID)
	return updated, nil
}

// findOwned validates identifiers, resolves the message within its chat
// and enforces that callerID is the author.
func (s *MessageService) findOwned(ctx context.Context, op, chatID, messageID, callerID string) (*domain.Message, error) {
	if !validation.IsValidID(chatID) || !validation.IsValidID(messageID) || !validation.IsValidID(callerID) {
		return nil, apperrors.NewInvalidInput(op, "invalid ID format")
	}

	found, err := s.messageRepo.FindByIDInChat(ctx, chatID, messageID)
	if err != nil {
		if errors.Is(err, message.ErrMessageNotFound) {
			return nil, apperrors.NewNotFound(op, "message not found")
		}
		return nil, apperrors.NewStorage(op, err)
	}

	if found.UserID != callerID {
		return nil, apperrors.NewForbidden(op, "you can only modify your own messages")
	}
	return found, nil
}
