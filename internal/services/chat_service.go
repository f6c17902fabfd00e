// File: internal/services/chat_service.go
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mobile-messenger/backend/internal/apperrors"
	"github.com/mobile-messenger/backend/internal/domain"
	"github.com/mobile-messenger/backend/internal/repository/chat"
	"github.com/mobile-messenger/backend/internal/validation"
)

// DefaultChatListLimit caps chat listings when the caller does not ask
// for a specific limit.
const DefaultChatListLimit = 10

// InvitePolicy decides who may add participants to a chat. The upstream
// behavior diverged between deployments, so the choice is configuration,
// not code.
type InvitePolicy string

const (
	// InviteParticipantsOnly requires the caller to already hold a
	// membership row in the chat before inviting.
	InviteParticipantsOnly InvitePolicy = "participants"
	// InviteAnyAuthenticated lets any authenticated user add
	// participants to any existing chat.
	InviteAnyAuthenticated InvitePolicy = "any"
)

// ChatPolicy carries the authorization and lifecycle decisions that are
// deployment configuration rather than invariants.
type ChatPolicy struct {
	Invite           InvitePolicy
	DeleteEmptyChats bool
}

func DefaultChatPolicy() ChatPolicy {
	return ChatPolicy{Invite: InviteParticipantsOnly, DeleteEmptyChats: false}
}

// chatFieldColumns is the whitelist of patchable chat fields, mapped to
// their storage columns. Anything else in a patch is ignored.
var chatFieldColumns = map[string]string{
	"name":        "name",
	"description": "description",
	"avatarUrl":   "avatar_url",
}

type ChatService struct {
	chatRepo chat.ChatRepository
	policy   ChatPolicy
	logger   Logger
}

func NewChatService(chatRepo chat.ChatRepository, policy ChatPolicy, logger Logger) (*ChatService, error) {
	if chatRepo == nil {
		return nil, errors.New("chat repository is required")
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}
	if policy.Invite == "" {
		policy.Invite = InviteParticipantsOnly
	}
	return &ChatService{chatRepo: chatRepo, policy: policy, logger: logger}, nil
}

// CreateChat inserts the chat together with its founding participant.
// Either both rows exist afterwards or neither does.
func (s *ChatService) CreateChat(ctx context.Context, name, founderID string) (*domain.Chat, error) {
	const op = "create_chat"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewInvalidInput(op, "name and userId are required")
	}
	if !validation.IsValidID(founderID) {
		return nil, apperrors.NewMalformedIdentifier(op, "user ID")
	}

	created, err := s.chatRepo.CreateWithFounder(ctx, &domain.Chat{Name: name}, founderID)
	if err != nil {
		s.logger.Error("chat creation failed", "founder_id", founderID, "error", err)
		return nil, apperrors.NewStorage(op, err)
	}

	s.logger.Info("chat created", "chat_id", created.ID, "founder_id", founderID)
	return created, nil
}

// ListChats returns the most recently created chats regardless of
// membership. The global listing is intentional; ListUserChats is the
// private view.
func (s *ChatService) ListChats(ctx context.Context, limit int) ([]domain.ChatSummary, error) {
	const op = "list_chats"

	if limit <= 0 {
		limit = DefaultChatListLimit
	}
	summaries, err := s.chatRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.NewStorage(op, err)
	}
	return summaries, nil
}

func (s *ChatService) ListUserChats(ctx context.Context, userID string, limit int) ([]domain.ChatSummary, error) {
	const op = "list_user_chats"

	if !validation.IsValidID(userID) {
		return nil, apperrors.NewMalformedIdentifier(op, "user ID")
	}
	if limit <= 0 {
		limit = DefaultChatListLimit
	}
	summaries, err := s.chatRepo.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.NewStorage(op, err)
	}
	return summaries, nil
}

// AddParticipant adds newUserID to the chat. Caller gating follows the
// configured invite policy; duplicate membership is a conflict either way.
func (s *ChatService) AddParticipant(ctx context.Context, chatID, newUserID, callerID string) error {
	const op = "add_participant"

	if !validation.IsValidID(chatID) {
		return apperrors.NewMalformedIdentifier(op, "chat ID")
	}
	if !validation.IsValidID(newUserID) {
		return apperrors.NewMalformedIdentifier(op, "user ID")
	}

	if _, err := s.chatRepo.FindByID(ctx, chatID); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return apperrors.NewNotFound(op, "chat not found")
		}
		return apperrors.NewStorage(op, err)
	}

	if s.policy.Invite == InviteParticipantsOnly {
		if !validation.IsValidID(callerID) {
			return apperrors.NewMalformedIdentifier(op, "caller ID")
		}
		member, err := s.chatRepo.IsParticipant(ctx, chatID, callerID)
		if err != nil {
			return apperrors.NewStorage(op, err)
		}
		if !member {
			return apperrors.NewForbidden(op, "only participants may add users to this chat")
		}
	}

	already, err := s.chatRepo.IsParticipant(ctx, chatID, newUserID)
	if err != nil {
		return apperrors.NewStorage(op, err)
	}
	if already {
		return apperrors.NewConflict(op, "user is already a participant")
	}

	if err := s.chatRepo.AddParticipant(ctx, &domain.ChatParticipant{ChatID: chatID, UserID: newUserID}); err != nil {
		return apperrors.NewStorage(op, err)
	}

	s.logger.Info("participant added", "chat_id", chatID, "user_id", newUserID)
	return nil
}

// RemoveParticipant deletes one membership row. Preconditions run in
// order: identifiers, chat existence, caller membership, target
// membership.
func (s *ChatService) RemoveParticipant(ctx context.Context, chatID, targetUserID, callerID string) error {
	const op = "remove_participant"

	if !validation.IsValidID(chatID) || !validation.IsValidID(targetUserID) || !validation.IsValidID(callerID) {
		return apperrors.NewInvalidInput(op, "invalid ID format")
	}

	if _, err := s.chatRepo.FindByID(ctx, chatID); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return apperrors.NewNotFound(op, "chat not found")
		}
		return apperrors.NewStorage(op, err)
	}

	callerMember, err := s.chatRepo.IsParticipant(ctx, chatID, callerID)
	if err != nil {
		return apperrors.NewStorage(op, err)
	}
	if !callerMember {
		return apperrors.NewForbidden(op, "current user is not a participant of this chat")
	}

	targetMember, err := s.chatRepo.IsParticipant(ctx, chatID, targetUserID)
	if err != nil {
		return apperrors.NewStorage(op, err)
	}
	if !targetMember {
		return apperrors.NewNotFound(op, "target user is not a participant of this chat")
	}

	if err := s.chatRepo.RemoveParticipant(ctx, chatID, targetUserID, s.policy.DeleteEmptyChats); err != nil {
		if errors.Is(err, chat.ErrParticipantNotFound) {
			return apperrors.NewNotFound(op, "target user is not a participant of this chat")
		}
		return apperrors.NewStorage(op, err)
	}

	s.logger.Info("participant removed", "chat_id", chatID, "user_id", targetUserID, "caller_id", callerID)
	return nil
}

// DeleteChat tears the chat down: messages, participants, then the chat
// row, atomically. Any current participant may delete the chat.
func (s *ChatService) DeleteChat(ctx context.Context, chatID, callerID string) error {
	const op = "delete_chat"

	if !validation.IsValidID(chatID) || !validation.IsValidID(callerID) {
		return apperrors.NewInvalidInput(op, "invalid ID format")
	}

	member, err := s.chatRepo.IsParticipant(ctx, chatID, callerID)
	if err != nil {
		return apperrors.NewStorage(op, err)
	}
	if !member {
		return apperrors.NewForbidden(op, "user is not a participant of this chat")
	}

	if err := s.chatRepo.DeleteCascade(ctx, chatID); err != nil {
		s.logger.Error("chat deletion failed", "chat_id", chatID, "error", err)
		return apperrors.NewStorage(op, err)
	}

	s.logger.Info("chat deleted", "chat_id", chatID, "caller_id", callerID)
	return nil
}

// EditChat applies a whitelisted patch to the chat. Unknown patch fields
// are ignored; a patch with no recognized fields is an input error.
func (s *ChatService) EditChat(ctx context.Context, chatID, callerID string, patch map[string]any) error {
	const op = "edit_chat"

	if !validation.IsValidID(chatID) || !validation.IsValidID(callerID) {
		return apperrors.NewInvalidInput(op, "invalid ID format")
	}

	member, err := s.chatRepo.IsParticipant(ctx, chatID, callerID)
	if err != nil {
		return apperrors.NewStorage(op, err)
	}
	if !member {
		return apperrors.NewForbidden(op, "you are not authorized to edit this chat")
	}

	columns := make(map[string]any, len(chatFieldColumns))
	for field, column := range chatFieldColumns {
		if value, ok := patch[field]; ok {
			columns[column] = value
		}
	}
	if len(columns) == 0 {
		return apperrors.NewInvalidInput(op, "no valid fields to update")
	}

	if err := s.chatRepo.UpdateFields(ctx, chatID, columns); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return apperrors.NewNotFound(op, "chat not found")
		}
		return apperrors.NewStorage(op, err)
	}

	s.logger.Info("chat updated", "chat_id", chatID, "caller_id", callerID)
	return nil
}

func (s *ChatService) GetChatParticipants(ctx context.Context, chatID string) ([]domain.ParticipantInfo, error) {
	const op = "get_chat_participants"

	if !validation.IsValidID(chatID) {
		return nil, apperrors.NewMalformedIdentifier(op, "chat ID")
	}

	if _, err := s.chatRepo.FindByID(ctx, chatID); err != nil {
		if errors.Is(err, chat.ErrChatNotFound) {
			return nil, apperrors.NewNotFound(op, "chat not found")
		}
		return nil, apperrors.NewStorage(op, err)
	}

	participants, err := s.chatRepo.ListParticipants(ctx, chatID)
	if err != nil {
		return nil, apperrors.NewStorage(op, err)
	}
	return participants, nil
}
