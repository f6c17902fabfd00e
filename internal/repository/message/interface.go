package message

import (
	"context"

	"github.com/mobile-messenger/backend/internal/domain"
)

// MessageRepository handles message persistence. Existence and ownership
// decisions belong to the service layer; this interface only moves rows.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByIDInChat(ctx context.Context, chatID, messageID string) (*domain.Message, error)
	FindRecentByChatID(ctx context.Context, chatID string, limit int) ([]domain.Message, error)
	UpdateContent(ctx context.Context, messageID, content string) (*domain.Message, error)
	Delete(ctx context.Context, messageID string) error
}
