package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mobile-messenger/backend/internal/apperrors"
	"github.com/mobile-messenger/backend/internal/domain"
	"github.com/mobile-messenger/backend/internal/mocks"
	"github.com/mobile-messenger/backend/internal/repository/chat"
	"github.com/mobile-messenger/backend/internal/validation"
)

func newChatService(t *testing.T, policy ChatPolicy) (*ChatService, *mocks.MockChatRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockChatRepository(ctrl)
	svc, err := NewChatService(repo, policy, &NoOpLogger{})
	require.NoError(t, err)
	return svc, repo
}

func TestChatService_CreateChat(t *testing.T) {
	ctx := context.Background()

	t.Run("creates chat with founding participant", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())
		founderID := validation.NewID()

		repo.EXPECT().
			CreateWithFounder(ctx, gomock.Any(), founderID).
			DoAndReturn(func(_ context.Context, c *domain.Chat, _ string) (*domain.Chat, error) {
				c.ID = validation.NewID()
				return c, nil
			}).
			Times(1)

		created, err := svc.CreateChat(ctx, "Team", founderID)
		req.NoError(err)
		req.Equal("Team", created.Name)
		req.True(validation.IsValidID(created.ID))
	})

	t.Run("rejects blank name without touching storage", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newChatService(t, DefaultChatPolicy())

		_, err := svc.CreateChat(ctx, "   ", validation.NewID())
		req.True(apperrors.IsKind(err, apperrors.KindInvalidInput))
	})

	t.Run("rejects malformed founder id", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newChatService(t, DefaultChatPolicy())

		_, err := svc.CreateChat(ctx, "Team", "not-a-uuid")
		req.True(apperrors.IsKind(err, apperrors.KindMalformedIdentifier))
	})

	t.Run("wraps storage failures", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())

		repo.EXPECT().
			CreateWithFounder(ctx, gomock.Any(), gomock.Any()).
			Return(nil, errors.New("disk full"))

		_, err := svc.CreateChat(ctx, "Team", validation.NewID())
		req.True(apperrors.IsKind(err, apperrors.KindStorage))
	})
}

func TestChatService_AddParticipant(t *testing.T) {
	ctx := context.Background()

	t.Run("second add of the same user is a conflict", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())
		chatID, callerID, newUserID := validation.NewID(), validation.NewID(), validation.NewID()

		repo.EXPECT().FindByID(ctx, chatID).Return(&domain.Chat{ID: chatID}, nil).Times(2)
		repo.EXPECT().IsParticipant(ctx, chatID, callerID).Return(true, nil).Times(2)
		gomock.InOrder(
			repo.EXPECT().IsParticipant(ctx, chatID, newUserID).Return(false, nil),
			repo.EXPECT().AddParticipant(ctx, gomock.Any()).Return(nil),
			repo.EXPECT().IsParticipant(ctx, chatID, newUserID).Return(true, nil),
		)

		req.NoError(svc.AddParticipant(ctx, chatID, newUserID, callerID))

		err := svc.AddParticipant(ctx, chatID, newUserID, callerID)
		req.True(apperrors.IsKind(err, apperrors.KindConflict))
	})

	t.Run("missing chat is not found", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())
		chatID := validation.NewID()

		repo.EXPECT().FindByID(ctx, chatID).Return(nil, chat.ErrChatNotFound)

		err := svc.AddParticipant(ctx, chatID, validation.NewID(), validation.NewID())
		req.True(apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("participants-only policy forbids outsiders", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, ChatPolicy{Invite: InviteParticipantsOnly})
		chatID, outsiderID := validation.NewID(), validation.NewID()

		repo.EXPECT().FindByID(ctx, chatID).Return(&domain.Chat{ID: chatID}, nil)
		repo.EXPECT().IsParticipant(ctx, chatID, outsiderID).Return(false, nil)

		err := svc.AddParticipant(ctx, chatID, validation.NewID(), outsiderID)
		req.True(apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("any-authenticated policy skips the caller check", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, ChatPolicy{Invite: InviteAnyAuthenticated})
		chatID, newUserID := validation.NewID(), validation.NewID()

		repo.EXPECT().FindByID(ctx, chatID).Return(&domain.Chat{ID: chatID}, nil)
		repo.EXPECT().IsParticipant(ctx, chatID, newUserID).Return(false, nil)
		repo.EXPECT().AddParticipant(ctx, gomock.Any()).Return(nil)

		// Caller is nobody the chat knows; the permissive policy allows it.
		req.NoError(svc.AddParticipant(ctx, chatID, newUserID, validation.NewID()))
	})

	t.Run("malformed chat id fails before storage", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newChatService(t, DefaultChatPolicy())

		err := svc.AddParticipant(ctx, "bogus", validation.NewID(), validation.NewID())
		req.True(apperrors.IsKind(err, apperrors.KindMalformedIdentifier))
	})
}

func TestChatService_RemoveParticipant(t *testing.T) {
	ctx := context.Background()

	t.Run("preconditions run in order", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())
		chatID, targetID, callerID := validation.NewID(), validation.NewID(), validation.NewID()

		// Non-member caller is forbidden before the target is even looked at.
		repo.EXPECT().FindByID(ctx, chatID).Return(&domain.Chat{ID: chatID}, nil)
		repo.EXPECT().IsParticipant(ctx, chatID, callerID).Return(false, nil)

		err := svc.RemoveParticipant(ctx, chatID, targetID, callerID)
		req.True(apperrors.IsKind(err, apperrors.KindForbidden))
	})

	t.Run("absent target is not found", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())
		chatID, targetID, callerID := validation.NewID(), validation.NewID(), validation.NewID()

		repo.EXPECT().FindByID(ctx, chatID).Return(&domain.Chat{ID: chatID}, nil)
		repo.EXPECT().IsParticipant(ctx, chatID, callerID).Return(true, nil)
		repo.EXPECT().IsParticipant(ctx, chatID, targetID).Return(false, nil)

		err := svc.RemoveParticipant(ctx, chatID, targetID, callerID)
		req.True(apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("passes the empty-chat teardown policy to storage", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, ChatPolicy{Invite: InviteParticipantsOnly, DeleteEmptyChats: true})
		chatID, callerID := validation.NewID(), validation.NewID()

		repo.EXPECT().FindByID(ctx, chatID).Return(&domain.Chat{ID: chatID}, nil)
		repo.EXPECT().IsParticipant(ctx, chatID, callerID).Return(true, nil).Times(2)
		repo.EXPECT().RemoveParticipant(ctx, chatID, callerID, true).Return(nil)

		req.NoError(svc.RemoveParticipant(ctx, chatID, callerID, callerID))
	})

	t.Run("invalid ids fail before storage", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newChatService(t, DefaultChatPolicy())

		err := svc.RemoveParticipant(ctx, validation.NewID(), "bogus", validation.NewID())
		req.True(apperrors.IsKind(err, apperrors.KindInvalidInput))
	})
}

func TestChatService_DeleteChat(t *testing.T) {
	ctx := context.Background()

	t.Run("participant may delete", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())
		chatID, callerID := validation.NewID(), validation.NewID()

		repo.EXPECT().IsParticipant(ctx, chatID, callerID).Return(true, nil)
		repo.EXPECT().DeleteCascade(ctx, chatID).Return(nil)

		req.NoError(svc.DeleteChat(ctx, chatID, callerID))
	})

	t.Run("non-participant is forbidden", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())
		chatID, callerID := validation.NewID(), validation.NewID()

		repo.EXPECT().IsParticipant(ctx, chatID, callerID).Return(false, nil)

		err := svc.DeleteChat(ctx, chatID, callerID)
		req.True(apperrors.IsKind(err, apperrors.KindForbidden))
	})
}

func TestChatService_EditChat(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only whitelisted fields", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())
		chatID, callerID := validation.NewID(), validation.NewID()

		repo.EXPECT().IsParticipant(ctx, chatID, callerID).Return(true, nil)
		repo.EXPECT().
			UpdateFields(ctx, chatID, map[string]any{"name": "Renamed", "avatar_url": "https://cdn/x.png"}).
			Return(nil)

		patch := map[string]any{
			"name":      "Renamed",
			"avatarUrl": "https://cdn/x.png",
			"id":        "evil-overwrite",
			"createdAt": "2001-01-01",
		}
		req.NoError(svc.EditChat(ctx, chatID, callerID, patch))
	})

	t.Run("patch without recognized fields is invalid input", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())
		chatID, callerID := validation.NewID(), validation.NewID()

		repo.EXPECT().IsParticipant(ctx, chatID, callerID).Return(true, nil)

		err := svc.EditChat(ctx, chatID, callerID, map[string]any{"id": "x"})
		req.True(apperrors.IsKind(err, apperrors.KindInvalidInput))
	})

	t.Run("non-participant is forbidden", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())
		chatID, callerID := validation.NewID(), validation.NewID()

		repo.EXPECT().IsParticipant(ctx, chatID, callerID).Return(false, nil)

		err := svc.EditChat(ctx, chatID, callerID, map[string]any{"name": "x"})
		req.True(apperrors.IsKind(err, apperrors.KindForbidden))
	})
}

func TestChatService_Listings(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults the limit to ten", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())

		repo.EXPECT().ListRecent(ctx, DefaultChatListLimit).Return([]domain.ChatSummary{}, nil)

		_, err := svc.ListChats(ctx, 0)
		req.NoError(err)
	})

	t.Run("user listing validates the user id", func(t *testing.T) {
		req := require.New(t)
		svc, _ := newChatService(t, DefaultChatPolicy())

		_, err := svc.ListUserChats(ctx, "bogus", 5)
		req.True(apperrors.IsKind(err, apperrors.KindMalformedIdentifier))
	})

	t.Run("user listing passes through", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())
		userID := validation.NewID()
		want := []domain.ChatSummary{{ID: validation.NewID(), Name: "Team", LastMessage: "hi"}}

		repo.EXPECT().ListByUserID(ctx, userID, 5).Return(want, nil)

		got, err := svc.ListUserChats(ctx, userID, 5)
		req.NoError(err)
		req.Equal(want, got)
	})
}

func TestChatService_GetChatParticipants(t *testing.T) {
	ctx := context.Background()

	t.Run("missing chat is not found", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())
		chatID := validation.NewID()

		repo.EXPECT().FindByID(ctx, chatID).Return(nil, chat.ErrChatNotFound)

		_, err := svc.GetChatParticipants(ctx, chatID)
		req.True(apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("returns participants", func(t *testing.T) {
		req := require.New(t)
		svc, repo := newChatService(t, DefaultChatPolicy())
		chatID := validation.NewID()
		want := []domain.ParticipantInfo{{ID: validation.NewID(), Username: "alice"}}

		repo.EXPECT().FindByID(ctx, chatID).Return(&domain.Chat{ID: chatID}, nil)
		repo.EXPECT().ListParticipants(ctx, chatID).Return(want, nil)

		got, err := svc.GetChatParticipants(ctx, chatID)
		req.NoError(err)
		req.Equal(want, got)
	})
}
