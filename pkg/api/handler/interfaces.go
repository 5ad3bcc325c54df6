package handler

import (
	"context"

	"github.com/dskvich/ottaga/pkg/domain"
)

type Conversation interface {
	CreateChat(ctx context.Context, userInfo *domain.UserInfo) (string, error)
	History(ctx context.Context, chatID string) ([]domain.ChatMessage, error)
	SendMessage(ctx context.Context, chatID string, prior []domain.ChatMessage, msg domain.ChatMessage) (<-chan domain.StreamChunk, error)
	CompleteMessage(ctx context.Context, chatID string, prior []domain.ChatMessage, msg domain.ChatMessage) (domain.Result[string], error)
}

type ChatManager interface {
	GetChat(ctx context.Context, userID, chatID string) (*domain.Chat, error)
	ListChats(ctx context.Context, userID string) ([]domain.Chat, error)
	UpdateChat(ctx context.Context, userID, chatID, title, description string) (*domain.Chat, error)
	DeleteChat(ctx context.Context, userID, chatID string) error
	GetMessages(ctx context.Context, userID, chatID string, limit int) ([]domain.Message, error)
}

type RateLimiter interface {
	Allow(key string) bool
}
