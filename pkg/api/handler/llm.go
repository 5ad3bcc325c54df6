package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dskvich/ottaga/pkg/api/middleware"
	"github.com/dskvich/ottaga/pkg/api/response"
	"github.com/dskvich/ottaga/pkg/domain"
	"github.com/dskvich/ottaga/pkg/logger"
	"github.com/dskvich/ottaga/pkg/metrics"
	"github.com/dskvich/ottaga/pkg/sse"
)

const (
	rateLimitedMessage = "LLM Call Rate Limit Exceeded. Please wait and try again later."
	streamErrorMessage = "Sorry, there was a server error. Please try again."
)

type llm struct {
	conversation Conversation
	manager      ChatManager
	limiter      RateLimiter
	writer       response.JSONResponseWriter
}

func NewLLM(conversation Conversation, manager ChatManager, limiter RateLimiter) *llm {
	return &llm{
		conversation: conversation,
		manager:      manager,
		limiter:      limiter,
	}
}

func (l *llm) Register(r *mux.Router) {
	r.HandleFunc("/llm", l.stream).Methods(http.MethodPost)
	r.HandleFunc("/llm/complete", l.complete).Methods(http.MethodPost)
}

type messageRequest struct {
	ChatID       string `json:"chatID"`
	MessageInput string `json:"messageInput"`
}

// prepare validates the request, checks ownership, applies the rate limit
// and loads history.
// It writes the error response itself and reports whether to continue.
func (l *llm) prepare(w http.ResponseWriter, r *http.Request) (messageRequest, []domain.ChatMessage, bool) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		l.writer.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body.")
		return req, nil, false
	}
	req.ChatID = strings.TrimSpace(req.ChatID)
	if req.ChatID == "" || strings.TrimSpace(req.MessageInput) == "" {
		l.writer.WriteErrorResponse(w, http.StatusBadRequest, "chatID and messageInput are required.")
		return req, nil, false
	}

	if _, err := l.manager.GetChat(r.Context(), middleware.UserIDFromContext(r.Context()), req.ChatID); err != nil {
		l.writer.WriteError(w, r, err)
		return req, nil, false
	}

	// Only the owner may spend a chat's budget.
	if !l.limiter.Allow(req.ChatID) {
		metrics.RateLimited.Inc()
		slog.WarnContext(r.Context(), "rate limit exceeded", "chatID", req.ChatID)
		l.writer.WriteErrorResponse(w, http.StatusTooManyRequests, rateLimitedMessage)
		return req, nil, false
	}

	history, err := l.conversation.History(r.Context(), req.ChatID)
	if err != nil {
		l.writer.WriteError(w, r, err)
		return req, nil, false
	}

	return req, history, true
}

func (l *llm) stream(w http.ResponseWriter, r *http.Request) {
	req, history, ok := l.prepare(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	chunks, err := l.conversation.SendMessage(ctx, req.ChatID, history, domain.NewUserMessage(req.MessageInput))
	if err != nil {
		l.writer.WriteError(w, r, err)
		return
	}

	out := sse.NewWriter(w)
	for chunk := range chunks {
		content := chunk.Data
		if chunk.Err != nil {
			content = streamErrorMessage
		}
		if err := out.WriteContent(content); err != nil {
			slog.WarnContext(ctx, "client went away", logger.Err(err))
			cancel()
			for range chunks {
			}
			return
		}
	}

	if err := out.WriteDone(); err != nil {
		slog.WarnContext(ctx, "writing done event", logger.Err(err))
	}
}

func (l *llm) complete(w http.ResponseWriter, r *http.Request) {
	req, history, ok := l.prepare(w, r)
	if !ok {
		return
	}

	res, err := l.conversation.CompleteMessage(r.Context(), req.ChatID, history, domain.NewUserMessage(req.MessageInput))
	if err != nil {
		l.writer.WriteError(w, r, err)
		return
	}

	l.writer.WriteSuccessResponse(w, http.StatusOK, res.Data)
}
