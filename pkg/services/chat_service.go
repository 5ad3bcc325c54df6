package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/dskvich/ottaga/pkg/domain"
)

const defaultMessagesPageSize = 10

const maxTitleLength = 200

// chatService exposes chats to their owners only.
type chatService struct {
	chats    ChatRepository
	messages MessageRepository
}

func NewChatService(chats ChatRepository, messages MessageRepository) *chatService {
	return &chatService{
		chats:    chats,
		messages: messages,
	}
}

func (c *chatService) GetChat(ctx context.Context, userID, chatID string) (*domain.Chat, error) {
	chat, err := c.chats.GetByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("fetching chat: %w", err)
	}
	if !chat.OwnedBy(userID) {
		return nil, domain.ErrForbidden
	}
	return chat, nil
}

func (c *chatService) ListChats(ctx context.Context, userID string) ([]domain.Chat, error) {
	if userID == "" {
		return nil, domain.ErrForbidden
	}
	chats, err := c.chats.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing chats: %w", err)
	}
	return lo.Ternary(chats == nil, []domain.Chat{}, chats), nil
}

func (c *chatService) UpdateChat(ctx context.Context, userID, chatID, title, description string) (*domain.Chat, error) {
	chat, err := c.GetChat(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.Modifiable {
		return nil, fmt.Errorf("%w: chat is not modifiable", domain.ErrForbidden)
	}

	title = strings.TrimSpace(title)
	if len(title) > maxTitleLength {
		return nil, fmt.Errorf("%w: title exceeds %d characters", domain.ErrInvalidInput, maxTitleLength)
	}

	updated, err := c.chats.Update(ctx, chatID, title, strings.TrimSpace(description))
	if err != nil {
		return nil, fmt.Errorf("updating chat: %w", err)
	}
	return updated, nil
}

func (c *chatService) DeleteChat(ctx context.Context, userID, chatID string) error {
	if _, err := c.GetChat(ctx, userID, chatID); err != nil {
		return err
	}
	if err := c.chats.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("deleting chat: %w", err)
	}
	return nil
}

// GetMessages returns up to limit recent messages of the chat, oldest first.
func (c *chatService) GetMessages(ctx context.Context, userID, chatID string, limit int) ([]domain.Message, error) {
	if _, err := c.GetChat(ctx, userID, chatID); err != nil {
		return nil, err
	}

	messages, err := c.messages.GetLastByChatID(ctx, chatID, lo.Ternary(limit > 0, limit, defaultMessagesPageSize))
	if err != nil {
		return nil, fmt.Errorf("fetching messages: %w", err)
	}
	return lo.Ternary(messages == nil, []domain.Message{}, messages), nil
}
