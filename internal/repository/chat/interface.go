package chat

import (
	"context"

	"github.com/mobile-messenger/backend/internal/domain"
)

// ChatRepository handles chat and participant persistence. Multi-row
// operations (CreateWithFounder, DeleteCascade, RemoveParticipant with
// teardown) run inside a single database transaction.
type ChatRepository interface {
	CreateWithFounder(ctx context.Context, chat *domain.Chat, founderID string) (*domain.Chat, error)
	FindByID(ctx context.Context, chatID string) (*domain.Chat, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ChatSummary, error)
	ListByUserID(ctx context.Context, userID string, limit int) ([]domain.ChatSummary, error)
	UpdateFields(ctx context.Context, chatID string, fields map[string]any) error
	DeleteCascade(ctx context.Context, chatID string) error

	AddParticipant(ctx context.Context, participant *domain.ChatParticipant) error
	RemoveParticipant(ctx context.Context, chatID, userID string, deleteChatWhenEmpty bool) error
	IsParticipant(ctx context.Context, chatID, userID string) (bool, error)
	ListParticipants(ctx context.Context, chatID string) ([]domain.ParticipantInfo, error)
}
