package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dskvich/ottaga/pkg/domain"
	"github.com/dskvich/ottaga/pkg/logger"
)

const (
	greetingMessage = "Hi, I'm Ottaga. I'm here to listen and support you. What's on your mind today?\n\n" +
		"If you are in crisis, call or text 988 (US) or text HOME to 741741."
	newChatMessage = "Started a new conversation. What would you like to talk about?"
)

type Conversation interface {
	CreateChat(ctx context.Context, userInfo *domain.UserInfo) (string, error)
	History(ctx context.Context, chatID string) ([]domain.ChatMessage, error)
	CompleteMessage(ctx context.Context, chatID string, prior []domain.ChatMessage, msg domain.ChatMessage) (domain.Result[string], error)
}

// ChatBindings maps a Telegram chat to its active conversation.
type ChatBindings interface {
	Get(ctx context.Context, telegramChatID int64) (string, error)
	Save(ctx context.Context, telegramChatID int64, chatID string) error
}

type handler struct {
	conversation Conversation
	bindings     ChatBindings
	responseCh   chan<- domain.Response
}

func NewHandler(
	conversation Conversation,
	bindings ChatBindings,
	responseCh chan<- domain.Response,
) *handler {
	return &handler{
		conversation: conversation,
		bindings:     bindings,
		responseCh:   responseCh,
	}
}

func (h *handler) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if text := strings.TrimSpace(msg.Text); isCommand(text) {
		h.handleCommand(ctx, msg.Chat.ID, msg.From.ID, text)
		return
	}

	if strings.TrimSpace(msg.Text) == "" {
		h.reply(ctx, msg.Chat.ID, "I can only read text messages for now.")
		return
	}

	h.handleText(ctx, msg.Chat.ID, msg.From.ID, msg.Text)
}

func isCommand(text string) bool {
	return strings.HasPrefix(text, "/")
}

func (h *handler) handleCommand(ctx context.Context, chatID, userID int64, text string) {
	cmd := strings.ToLower(strings.Fields(text)[0])
	cmd = strings.Split(cmd, "@")[0]

	switch cmd {
	case "/start":
		if _, err := h.startChat(ctx, chatID, userID); err != nil {
			h.fail(ctx, chatID, err)
			return
		}
		h.reply(ctx, chatID, greetingMessage)

	case "/new":
		if _, err := h.startChat(ctx, chatID, userID); err != nil {
			h.fail(ctx, chatID, err)
			return
		}
		h.reply(ctx, chatID, newChatMessage)

	default:
		slog.WarnContext(ctx, "Unhandled command", "cmd", cmd)
		h.reply(ctx, chatID, "Unknown command. Use /new to start a new conversation.")
	}
}

func (h *handler) handleText(ctx context.Context, chatID, userID int64, text string) {
	conversationID, err := h.bindings.Get(ctx, chatID)
	if err != nil {
		h.fail(ctx, chatID, fmt.Errorf("fetching active chat: %w", err))
		return
	}
	if conversationID == "" {
		if conversationID, err = h.startChat(ctx, chatID, userID); err != nil {
			h.fail(ctx, chatID, err)
			return
		}
	}

	history, err := h.conversation.History(ctx, conversationID)
	if err != nil {
		h.fail(ctx, chatID, err)
		return
	}

	res, err := h.conversation.CompleteMessage(ctx, conversationID, history, domain.NewUserMessage(text))
	if err != nil {
		h.fail(ctx, chatID, err)
		return
	}

	h.reply(ctx, chatID, res.Data)
}

func (h *handler) startChat(ctx context.Context, chatID, userID int64) (string, error) {
	conversationID, err := h.conversation.CreateChat(ctx, &domain.UserInfo{UserID: fmt.Sprintf("telegram:%d", userID)})
	if err != nil {
		return "", fmt.Errorf("creating chat: %w", err)
	}
	if err := h.bindings.Save(ctx, chatID, conversationID); err != nil {
		return "", fmt.Errorf("binding chat: %w", err)
	}

	slog.InfoContext(ctx, "Started conversation", "chatID", chatID, "conversationID", conversationID)
	return conversationID, nil
}

func (h *handler) reply(ctx context.Context, chatID int64, text string) {
	select {
	case h.responseCh <- domain.Response{ChatID: chatID, Text: text}:
	case <-ctx.Done():
	}
}

func (h *handler) fail(ctx context.Context, chatID int64, err error) {
	slog.ErrorContext(ctx, "handling update", "chatID", chatID, logger.Err(err))
	select {
	case h.responseCh <- domain.Response{ChatID: chatID, Err: err}:
	case <-ctx.Done():
	}
}
