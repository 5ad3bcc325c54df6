package services

import (
	"context"

	"github.com/dskvich/ottaga/pkg/domain"
)

type ModelProvider interface {
	CallCompletion(ctx context.Context, messages []domain.ChatMessage, showReasoningTokens bool) domain.Result[string]
	CallStreaming(ctx context.Context, messages []domain.ChatMessage, showReasoningTokens bool) <-chan domain.StreamChunk
	SystemPrompt() string
}

type Analytics interface {
	CaptureException(description string, properties map[string]any)
	Capture(event string, properties map[string]any)
}

type ChatRepository interface {
	Create(ctx context.Context, userID *string) (*domain.Chat, error)
	GetByID(ctx context.Context, chatID string) (*domain.Chat, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Chat, error)
	Update(ctx context.Context, chatID, title, description string) (*domain.Chat, error)
	Delete(ctx context.Context, chatID string) error
}

type MessageRepository interface {
	Create(ctx context.Context, chatID string, msg domain.ChatMessage) error
	GetLastByChatID(ctx context.Context, chatID string, limit int) ([]domain.Message, error)
}

type Moderator interface {
	CheckUserMessage(ctx context.Context, message domain.ChatMessage) domain.ModerationVerdict
}
