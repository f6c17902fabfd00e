package chat

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mobile-messenger/backend/internal/domain"
	"github.com/mobile-messenger/backend/internal/validation"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Chat{}, &domain.ChatParticipant{}, &domain.Message{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	user := &domain.User{ID: validation.NewID(), Username: username, Password: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreateWithFounder_BothRowsExist(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	founder := seedUser(t, db, "alice")
	created, err := repo.CreateWithFounder(ctx, &domain.Chat{Name: "Team"}, founder.ID)
	req.NoError(err)
	req.True(validation.IsValidID(created.ID))

	var chatCount, participantCount int64
	req.NoError(db.Model(&domain.Chat{}).Where("id = ?", created.ID).Count(&chatCount).Error)
	req.NoError(db.Model(&domain.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", created.ID, founder.ID).
		Count(&participantCount).Error)
	req.EqualValues(1, chatCount)
	req.EqualValues(1, participantCount)
}

func TestCreateWithFounder_RollsBackOnFailure(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	founder := seedUser(t, db, "alice")
	chatID := validation.NewID()
	_, err := repo.CreateWithFounder(ctx, &domain.Chat{ID: chatID, Name: "Team"}, founder.ID)
	req.NoError(err)

	// Reusing the same chat ID violates the primary key, so the second
	// attempt must leave no trace of itself.
	_, err = repo.CreateWithFounder(ctx, &domain.Chat{ID: chatID, Name: "Dup"}, founder.ID)
	req.Error(err)

	var chatCount, participantCount int64
	req.NoError(db.Model(&domain.Chat{}).Count(&chatCount).Error)
	req.NoError(db.Model(&domain.ChatParticipant{}).Count(&participantCount).Error)
	req.EqualValues(1, chatCount)
	req.EqualValues(1, participantCount)
}

func TestAddParticipant_DuplicateViolatesUniqueIndex(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	chat, err := repo.CreateWithFounder(ctx, &domain.Chat{Name: "Team"}, alice.ID)
	req.NoError(err)

	req.NoError(repo.AddParticipant(ctx, &domain.ChatParticipant{ChatID: chat.ID, UserID: bob.ID}))
	err = repo.AddParticipant(ctx, &domain.ChatParticipant{ChatID: chat.ID, UserID: bob.ID})
	req.Error(err)

	var count int64
	req.NoError(db.Model(&domain.ChatParticipant{}).
		Where("chat_id = ? AND user_id = ?", chat.ID, bob.ID).
		Count(&count).Error)
	req.EqualValues(1, count)
}

func TestRemoveParticipant(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	chat, err := repo.CreateWithFounder(ctx, &domain.Chat{Name: "Team"}, alice.ID)
	req.NoError(err)
	req.NoError(repo.AddParticipant(ctx, &domain.ChatParticipant{ChatID: chat.ID, UserID: bob.ID}))

	req.NoError(repo.RemoveParticipant(ctx, chat.ID, bob.ID, false))

	ok, err := repo.IsParticipant(ctx, chat.ID, bob.ID)
	req.NoError(err)
	req.False(ok)

	err = repo.RemoveParticipant(ctx, chat.ID, bob.ID, false)
	req.ErrorIs(err, ErrParticipantNotFound)
}

func TestRemoveParticipant_KeepsEmptyChatByDefault(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	chat, err := repo.CreateWithFounder(ctx, &domain.Chat{Name: "Team"}, alice.ID)
	req.NoError(err)

	req.NoError(repo.RemoveParticipant(ctx, chat.ID, alice.ID, false))

	found, err := repo.FindByID(ctx, chat.ID)
	req.NoError(err)
	req.Equal(chat.ID, found.ID)
}

func TestRemoveParticipant_TearsDownEmptyChatWhenEnabled(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	chat, err := repo.CreateWithFounder(ctx, &domain.Chat{Name: "Team"}, alice.ID)
	req.NoError(err)
	req.NoError(db.Create(&domain.Message{
		ID: validation.NewID(), ChatID: chat.ID, UserID: alice.ID, Content: "bye",
	}).Error)

	req.NoError(repo.RemoveParticipant(ctx, chat.ID, alice.ID, true))

	_, err = repo.FindByID(ctx, chat.ID)
	req.ErrorIs(err, ErrChatNotFound)

	var messageCount int64
	req.NoError(db.Model(&domain.Message{}).Where("chat_id = ?", chat.ID).Count(&messageCount).Error)
	req.EqualValues(0, messageCount)
}

func TestDeleteCascade_NoRowsRemain(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	chat, err := repo.CreateWithFounder(ctx, &domain.Chat{Name: "Team"}, alice.ID)
	req.NoError(err)
	req.NoError(repo.AddParticipant(ctx, &domain.ChatParticipant{ChatID: chat.ID, UserID: bob.ID}))
	for _, content := range []string{"hi", "hello"} {
		req.NoError(db.Create(&domain.Message{
			ID: validation.NewID(), ChatID: chat.ID, UserID: alice.ID, Content: content,
		}).Error)
	}

	req.NoError(repo.DeleteCascade(ctx, chat.ID))

	for _, model := range []any{&domain.Chat{}, &domain.ChatParticipant{}, &domain.Message{}} {
		var count int64
		req.NoError(db.Model(model).Count(&count).Error)
		req.EqualValues(0, count, "no %T rows may survive teardown", model)
	}
}

func TestListRecent_OrderAndLastMessage(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	older, err := repo.CreateWithFounder(ctx, &domain.Chat{Name: "Older"}, alice.ID)
	req.NoError(err)
	// Keep creation timestamps strictly ordered.
	req.NoError(db.Model(&domain.Chat{}).Where("id = ?", older.ID).
		Update("created_at", time.Now().UTC().Add(-time.Hour)).Error)
	newer, err := repo.CreateWithFounder(ctx, &domain.Chat{Name: "Newer"}, alice.ID)
	req.NoError(err)

	req.NoError(db.Create(&domain.Message{
		ID: validation.NewID(), ChatID: older.ID, UserID: alice.ID,
		Content: "first", CreatedAt: time.Now().UTC().Add(-time.Minute),
	}).Error)
	req.NoError(db.Create(&domain.Message{
		ID: validation.NewID(), ChatID: older.ID, UserID: alice.ID,
		Content: "latest", CreatedAt: time.Now().UTC(),
	}).Error)

	summaries, err := repo.ListRecent(ctx, 10)
	req.NoError(err)
	req.Len(summaries, 2)
	req.Equal(newer.ID, summaries[0].ID)
	req.Equal("", summaries[0].LastMessage)
	req.Equal(older.ID, summaries[1].ID)
	req.Equal("latest", summaries[1].LastMessage)
}

func TestListByUserID_RestrictedToMembership(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	mine, err := repo.CreateWithFounder(ctx, &domain.Chat{Name: "Mine"}, alice.ID)
	req.NoError(err)
	_, err = repo.CreateWithFounder(ctx, &domain.Chat{Name: "Theirs"}, bob.ID)
	req.NoError(err)

	summaries, err := repo.ListByUserID(ctx, alice.ID, 10)
	req.NoError(err)
	req.Len(summaries, 1)
	req.Equal(mine.ID, summaries[0].ID)
}

func TestListParticipants_OrderedByUsername(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	zoe := seedUser(t, db, "zoe")
	alice := seedUser(t, db, "alice")
	chat, err := repo.CreateWithFounder(ctx, &domain.Chat{Name: "Team"}, zoe.ID)
	req.NoError(err)
	req.NoError(repo.AddParticipant(ctx, &domain.ChatParticipant{ChatID: chat.ID, UserID: alice.ID}))

	participants, err := repo.ListParticipants(ctx, chat.ID)
	req.NoError(err)
	req.Len(participants, 2)
	req.Equal("alice", participants[0].Username)
	req.Equal("zoe", participants[1].Username)
}

func TestUpdateFields(t *testing.T) {
	req := require.New(t)
	db := newTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	chat, err := repo.CreateWithFounder(ctx, &domain.Chat{Name: "Team"}, alice.ID)
	req.NoError(err)

	req.NoError(repo.UpdateFields(ctx, chat.ID, map[string]any{
		"name":        "Renamed",
		"description": "the team chat",
	}))

	found, err := repo.FindByID(ctx, chat.ID)
	req.NoError(err)
	req.Equal("Renamed", found.Name)
	req.Equal("the team chat", found.Description)

	err = repo.UpdateFields(ctx, validation.NewID(), map[string]any{"name": "x"})
	req.ErrorIs(err, ErrChatNotFound)
}
