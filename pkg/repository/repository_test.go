package repository

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/ottaga/pkg/database"
	"github.com/dskvich/ottaga/pkg/domain"
)

// Runs against a real Postgres when TEST_DATABASE_URL is set.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := database.NewPostgres(url, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestChatRepository_Lifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	chats := NewChatRepository(db)
	messages := NewMessageRepository(db)

	owner := "user-1"
	chat, err := chats.Create(ctx, &owner)
	require.NoError(t, err)
	require.NotNil(t, chat.UserID)
	assert.Equal(t, owner, *chat.UserID)
	assert.True(t, chat.Modifiable)

	updated, err := chats.Update(ctx, chat.ID, "title", "desc")
	require.NoError(t, err)
	assert.Equal(t, "title", updated.Title)

	list, err := chats.ListByUser(ctx, owner)
	require.NoError(t, err)
	assert.NotEmpty(t, list)

	require.NoError(t, messages.Create(ctx, chat.ID, domain.NewSystemMessage("sys")))
	require.NoError(t, chats.Delete(ctx, chat.ID))

	_, err = chats.GetByID(ctx, chat.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := messages.GetLastByChatID(ctx, chat.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.ErrorIs(t, chats.Delete(ctx, chat.ID), domain.ErrNotFound)
}

func TestMessageRepository_LastMessagesOldestFirst(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	chat, err := NewChatRepository(db).Create(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, chat.UserID)

	messages := NewMessageRepository(db)
	for _, c := range []string{"one", "two", "three", "four"} {
		require.NoError(t, messages.Create(ctx, chat.ID, domain.NewUserMessage(c)))
	}

	got, err := messages.GetLastByChatID(ctx, chat.ID, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "two", got[0].Content)
	assert.Equal(t, "four", got[2].Content)
}

func TestTelegramChatRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	chat, err := NewChatRepository(db).Create(ctx, nil)
	require.NoError(t, err)

	repo := NewTelegramChatRepository(db)
	telegramChatID := -time.Now().UnixNano()

	id, err := repo.Get(ctx, telegramChatID)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, repo.Save(ctx, telegramChatID, chat.ID))
	id, err = repo.Get(ctx, telegramChatID)
	require.NoError(t, err)
	assert.Equal(t, chat.ID, id)
}

func TestRepositories_MalformedChatIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	// No database: malformed ids must be rejected before any query runs.
	chats := NewChatRepository(nil)
	messages := NewMessageRepository(nil)

	for _, id := range []string{"nope", "", "x", "1234", "00000000-0000-0000-0000-00000000000z"} {
		t.Run(id, func(t *testing.T) {
			_, err := chats.GetByID(ctx, id)
			assert.ErrorIs(t, err, domain.ErrNotFound)

			_, err = chats.Update(ctx, id, "t", "d")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			assert.ErrorIs(t, chats.Delete(ctx, id), domain.ErrNotFound)
			assert.ErrorIs(t, messages.Create(ctx, id, domain.NewUserMessage("hi")), domain.ErrNotFound)

			got, err := messages.GetLastByChatID(ctx, id, 5)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}
