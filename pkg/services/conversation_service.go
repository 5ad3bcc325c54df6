package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/dskvich/ottaga/pkg/domain"
	"github.com/dskvich/ottaga/pkg/logger"
	"github.com/dskvich/ottaga/pkg/metrics"
)

// conversationService runs one turn at a time: moderation first, then the
// assistant, then persistence. It keeps no per-chat state.
type conversationService struct {
	moderator    Moderator
	assistant    ModelProvider
	chats        ChatRepository
	messages     MessageRepository
	historyLimit int
}

func NewConversationService(
	moderator Moderator,
	assistant ModelProvider,
	chats ChatRepository,
	messages MessageRepository,
	historyLimit int,
) *conversationService {
	return &conversationService{
		moderator:    moderator,
		assistant:    assistant,
		chats:        chats,
		messages:     messages,
		historyLimit: historyLimit,
	}
}

// CreateChat creates a chat and writes its system message. Past session
// summaries, when present, are appended to the persona.
func (c *conversationService) CreateChat(ctx context.Context, userInfo *domain.UserInfo) (string, error) {
	var owner *string
	var summaries []string
	if userInfo != nil {
		if userInfo.UserID != "" {
			owner = lo.ToPtr(userInfo.UserID)
		}
		summaries = userInfo.PastSessionSummaries
	}

	chat, err := c.chats.Create(ctx, owner)
	if err != nil {
		slog.ErrorContext(ctx, "creating chat", logger.Err(err))
		return "", fmt.Errorf("%w: %w", domain.ErrChatCreation, err)
	}

	system := domain.NewSystemMessage(c.systemPrompt(summaries))
	if err := c.messages.Create(ctx, chat.ID, system); err != nil {
		slog.ErrorContext(ctx, "writing system message", "chatID", chat.ID, logger.Err(err))
		if delErr := c.chats.Delete(ctx, chat.ID); delErr != nil {
			slog.ErrorContext(ctx, "removing incomplete chat", "chatID", chat.ID, logger.Err(delErr))
		}
		return "", fmt.Errorf("%w: %w", domain.ErrChatCreation, err)
	}

	slog.InfoContext(ctx, "chat created", "chatID", chat.ID, "summaries", len(summaries))
	return chat.ID, nil
}

func (c *conversationService) systemPrompt(summaries []string) string {
	persona := c.assistant.SystemPrompt()
	if len(summaries) == 0 {
		return persona
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s \n Here is a summary of the max last %d sessions. \n", persona, len(summaries))
	for i, s := range summaries {
		fmt.Fprintf(&sb, "<session %d> %s </session %d>", i+1, s, i+1)
	}
	return sb.String()
}

// History returns the recent messages of a chat as model input. The stored
// persona is dropped because the provider prepends its own.
func (c *conversationService) History(ctx context.Context, chatID string) ([]domain.ChatMessage, error) {
	stored, err := c.messages.GetLastByChatID(ctx, chatID, c.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	persona := c.assistant.SystemPrompt()
	kept := lo.Reject(stored, func(m domain.Message, _ int) bool {
		return m.Role == domain.RoleSystem && m.Content == persona
	})
	return lo.Map(kept, func(m domain.Message, _ int) domain.ChatMessage {
		return m.ChatMessage()
	}), nil
}

// SendMessage moderates msg and, when it is cleared, streams the assistant
// reply. Moderation completes before this returns, so no assistant call can
// start for a rejected message. A rejection yields a single chunk holding the
// verdict text and nothing is persisted.
//
// The user message is persisted once the stream ends, whatever the outcome.
// The assistant reply is persisted only when the stream ends naturally.
//
// The caller must either drain the returned channel or cancel ctx. A caller
// that stops reading without cancelling leaks the relay goroutine and holds
// the provider connection open.
func (c *conversationService) SendMessage(
	ctx context.Context,
	chatID string,
	prior []domain.ChatMessage,
	msg domain.ChatMessage,
) (<-chan domain.StreamChunk, error) {
	if err := validateUserMessage(msg); err != nil {
		return nil, err
	}

	started := time.Now()

	verdict := c.moderator.CheckUserMessage(ctx, msg)
	if verdict.IsMalicious {
		observeTurn(metrics.OutcomeRejected, started)

		out := make(chan domain.StreamChunk, 1)
		out <- domain.ChunkOf(verdict.MessageResponse)
		close(out)
		return out, nil
	}

	history := append(prior[:len(prior):len(prior)], msg)
	upstream := c.assistant.CallStreaming(ctx, history, false)

	out := make(chan domain.StreamChunk)
	go c.relay(ctx, chatID, msg, upstream, out, started)

	return out, nil
}

func (c *conversationService) relay(
	ctx context.Context,
	chatID string,
	msg domain.ChatMessage,
	upstream <-chan domain.StreamChunk,
	out chan<- domain.StreamChunk,
	started time.Time,
) {
	defer close(out)

	var reply strings.Builder
	outcome := c.forward(ctx, upstream, out, &reply)

	// The caller may be gone, but what was said is still recorded.
	persistCtx := context.WithoutCancel(ctx)
	c.persist(persistCtx, chatID, msg)

	switch {
	case outcome != metrics.OutcomeCompleted:
	case reply.Len() == 0:
		slog.WarnContext(ctx, "assistant reply is empty, not persisted", "chatID", chatID)
	default:
		c.persist(persistCtx, chatID, domain.NewAssistantMessage(reply.String()))
	}

	observeTurn(outcome, started)
	slog.InfoContext(ctx, "turn finished", "chatID", chatID, "outcome", outcome, "replyLength", reply.Len())
}

func (c *conversationService) forward(
	ctx context.Context,
	upstream <-chan domain.StreamChunk,
	out chan<- domain.StreamChunk,
	reply *strings.Builder,
) string {
	for {
		var chunk domain.StreamChunk
		var ok bool

		select {
		case chunk, ok = <-upstream:
		case <-ctx.Done():
			return metrics.OutcomeCanceled
		}

		switch {
		case !ok:
			if ctx.Err() != nil {
				return metrics.OutcomeCanceled
			}
			return metrics.OutcomeCompleted
		case chunk.Err != nil:
			slog.ErrorContext(ctx, "assistant stream interrupted", logger.Err(chunk.Err))
			select {
			case out <- domain.TerminalChunk(domain.ErrStreamInterrupted):
			case <-ctx.Done():
			}
			return metrics.OutcomeFailed
		case !chunk.Success:
			continue
		}

		reply.WriteString(chunk.Data)

		select {
		case out <- chunk:
			metrics.StreamChunks.Inc()
		case <-ctx.Done():
			return metrics.OutcomeCanceled
		}
	}
}

// CompleteMessage is the non-streaming form of SendMessage.
func (c *conversationService) CompleteMessage(
	ctx context.Context,
	chatID string,
	prior []domain.ChatMessage,
	msg domain.ChatMessage,
) (domain.Result[string], error) {
	if err := validateUserMessage(msg); err != nil {
		return domain.Failed[string](), err
	}

	started := time.Now()

	verdict := c.moderator.CheckUserMessage(ctx, msg)
	if verdict.IsMalicious {
		observeTurn(metrics.OutcomeRejected, started)
		return domain.Succeeded(verdict.MessageResponse), nil
	}

	history := append(prior[:len(prior):len(prior)], msg)
	res := c.assistant.CallCompletion(ctx, history, false)

	persistCtx := context.WithoutCancel(ctx)
	c.persist(persistCtx, chatID, msg)

	if !res.Success {
		observeTurn(metrics.OutcomeFailed, started)
		return domain.Failed[string](), domain.ErrProviderUnavailable
	}

	c.persist(persistCtx, chatID, domain.NewAssistantMessage(res.Data))
	observeTurn(metrics.OutcomeCompleted, started)

	return res, nil
}

func (c *conversationService) persist(ctx context.Context, chatID string, msg domain.ChatMessage) {
	if err := c.messages.Create(ctx, chatID, msg); err != nil {
		slog.ErrorContext(ctx, "persisting message", "chatID", chatID, "role", msg.Role, logger.Err(err))
	}
}

func validateUserMessage(msg domain.ChatMessage) error {
	switch {
	case msg.Role != domain.RoleUser:
		return fmt.Errorf("%w: role must be %q", domain.ErrInvalidInput, domain.RoleUser)
	case strings.TrimSpace(msg.Content) == "":
		return fmt.Errorf("%w: message is empty", domain.ErrInvalidInput)
	case utf8.RuneCountInString(msg.Content) > domain.MaxMessageLength:
		return fmt.Errorf("%w: message exceeds %d characters", domain.ErrInvalidInput, domain.MaxMessageLength)
	}
	return nil
}

func observeTurn(outcome string, started time.Time) {
	metrics.Turns.WithLabelValues(outcome).Inc()
	metrics.TurnDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}
