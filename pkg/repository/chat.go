package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dskvich/ottaga/pkg/domain"
)

type chatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) *chatRepository {
	return &chatRepository{db: db}
}

// Create inserts a new chat with a random id. userID may be nil for
// anonymous chats.
func (c *chatRepository) Create(ctx context.Context, userID *string) (*domain.Chat, error) {
	const query = `
		INSERT INTO chats (id, user_id)
		VALUES ($1, $2)
		RETURNING id, user_id, title, description, created_at, modifiable
	`

	row := c.db.QueryRowContext(ctx, query, uuid.NewString(), userID)

	chat, err := scanChat(row)
	if err != nil {
		return nil, fmt.Errorf("inserting chat: %w", err)
	}
	return chat, nil
}

func (c *chatRepository) GetByID(ctx context.Context, chatID string) (*domain.Chat, error) {
	const query = `
		SELECT id, user_id, title, description, created_at, modifiable
		FROM chats
		WHERE id = $1
	`

	if !validChatID(chatID) {
		return nil, domain.ErrNotFound
	}

	chat, err := scanChat(c.db.QueryRowContext(ctx, query, chatID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("fetching chat by id: %w", err)
	}
	return chat, nil
}

func (c *chatRepository) ListByUser(ctx context.Context, userID string) ([]domain.Chat, error) {
	const query = `
		SELECT id, user_id, title, description, created_at, modifiable
		FROM chats
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing chats: %w", err)
	}
	defer rows.Close()

	var chats []domain.Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chat: %w", err)
		}
		chats = append(chats, *chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chats: %w", err)
	}
	return chats, nil
}

// Update changes title and description of a modifiable chat.
func (c *chatRepository) Update(ctx context.Context, chatID, title, description string) (*domain.Chat, error) {
	const query = `
		UPDATE chats
		SET title = $2, description = $3
		WHERE id = $1 AND modifiable
		RETURNING id, user_id, title, description, created_at, modifiable
	`

	if !validChatID(chatID) {
		return nil, domain.ErrNotFound
	}

	chat, err := scanChat(c.db.QueryRowContext(ctx, query, chatID, title, description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("updating chat: %w", err)
	}
	return chat, nil
}

// Delete removes a chat together with its messages.
func (c *chatRepository) Delete(ctx context.Context, chatID string) error {
	const query = `DELETE FROM chats WHERE id = $1`

	if !validChatID(chatID) {
		return domain.ErrNotFound
	}

	res, err := c.db.ExecContext(ctx, query, chatID)
	if err != nil {
		return fmt.Errorf("deleting chat: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// validChatID reports whether id can name a row in the uuid keyed chats
// table. Anything else would fail in postgres with invalid_text_representation.
func validChatID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanChat(s scanner) (*domain.Chat, error) {
	var (
		chat   domain.Chat
		userID sql.NullString
	)
	if err := s.Scan(&chat.ID, &userID, &chat.Title, &chat.Description, &chat.CreatedAt, &chat.Modifiable); err != nil {
		return nil, err
	}
	if userID.Valid {
		chat.UserID = &userID.String
	}
	return &chat, nil
}
