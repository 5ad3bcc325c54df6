package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dskvich/ottaga/pkg/domain"
)

const DefaultMessageLimit = 20

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *messageRepository {
	return &messageRepository{db: db}
}

// Create appends a message to a chat. Ids are time ordered so messages
// written within the same timestamp keep their insertion order.
func (m *messageRepository) Create(ctx context.Context, chatID string, msg domain.ChatMessage) error {
	const query = `
		INSERT INTO messages (id, chat_id, role, content)
		VALUES ($1, $2, $3, $4)
	`

	if !validChatID(chatID) {
		return domain.ErrNotFound
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generating message id: %w", err)
	}

	if _, err := m.db.ExecContext(ctx, query, id.String(), chatID, msg.Role, msg.Content); err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}
	return nil
}

// GetLastByChatID returns up to limit most recent messages, oldest first.
func (m *messageRepository) GetLastByChatID(ctx context.Context, chatID string, limit int) ([]domain.Message, error) {
	const query = `
		SELECT id, chat_id, role, content, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	if !validChatID(chatID) {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultMessageLimit
	}

	rows, err := m.db.QueryContext(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
