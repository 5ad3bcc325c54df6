package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type telegramChatRepository struct {
	db *sql.DB
}

func NewTelegramChatRepository(db *sql.DB) *telegramChatRepository {
	return &telegramChatRepository{db: db}
}

// Save points a Telegram chat at its active conversation.
func (t *telegramChatRepository) Save(ctx context.Context, telegramChatID int64, chatID string) error {
	const query = `
		INSERT INTO telegram_chats (telegram_chat_id, chat_id, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (telegram_chat_id)
		DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := t.db.ExecContext(ctx, query, telegramChatID, chatID); err != nil {
		return fmt.Errorf("saving telegram chat: %w", err)
	}
	return nil
}

// Get returns the active conversation id, or "" when none was saved.
func (t *telegramChatRepository) Get(ctx context.Context, telegramChatID int64) (string, error) {
	const query = `SELECT chat_id FROM telegram_chats WHERE telegram_chat_id = $1`

	var chatID string
	err := t.db.QueryRowContext(ctx, query, telegramChatID).Scan(&chatID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("fetching telegram chat: %w", err)
	}
	return chatID, nil
}
