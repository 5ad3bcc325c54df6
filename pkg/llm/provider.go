package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sashabaranov/go-openai"

	"github.com/dskvich/ottaga/pkg/domain"
	"github.com/dskvich/ottaga/pkg/logger"
)

type Config struct {
	BaseURL      string
	APIKey       string
	Model        string
	SystemPrompt string
	Temperature  float32
	MaxTokens    int
}

// Provider talks to one OpenAI-compatible model with a fixed persona.
// It is immutable after construction and safe for concurrent use.
type Provider struct {
	api *openai.Client
	cfg Config
}

func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is empty")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Provider{
		api: openai.NewClientWithConfig(clientCfg),
		cfg: cfg,
	}, nil
}

func (p *Provider) SystemPrompt() string { return p.cfg.SystemPrompt }

func (p *Provider) Model() string { return p.cfg.Model }

// CallCompletion requests a whole response in one call.
func (p *Provider) CallCompletion(ctx context.Context, messages []domain.ChatMessage, showReasoningTokens bool) domain.Result[string] {
	resp, err := p.api.CreateChatCompletion(ctx, p.request(messages))
	if err != nil {
		slog.ErrorContext(ctx, "creating chat completion", "model", p.cfg.Model, logger.Err(err))
		return domain.Failed[string]()
	}

	if len(resp.Choices) == 0 {
		slog.ErrorContext(ctx, "chat completion has no choices", "model", p.cfg.Model)
		return domain.Failed[string]()
	}

	content := resp.Choices[0].Message.Content
	if !showReasoningTokens {
		content = stripReasoning(content)
	}
	if content == "" {
		slog.ErrorContext(ctx, "chat completion is empty", "model", p.cfg.Model)
		return domain.Failed[string]()
	}

	return domain.Succeeded(content)
}

// CallStreaming starts a streamed completion. The returned channel is
// unbuffered, so the provider reads from the connection only as fast as the
// caller receives. Cancelling ctx stops the producer and closes the
// connection. The channel is closed after the last chunk.
func (p *Provider) CallStreaming(ctx context.Context, messages []domain.ChatMessage, showReasoningTokens bool) <-chan domain.StreamChunk {
	out := make(chan domain.StreamChunk)

	go func() {
		defer close(out)

		send := func(chunk domain.StreamChunk) bool {
			select {
			case out <- chunk:
				return true
			case <-ctx.Done():
				return false
			}
		}

		req := p.request(messages)
		req.Stream = true

		stream, err := p.api.CreateChatCompletionStream(ctx, req)
		if err != nil {
			slog.ErrorContext(ctx, "opening completion stream", "model", p.cfg.Model, logger.Err(err))
			send(domain.TerminalChunk(fmt.Errorf("opening completion stream: %w", err)))
			return
		}
		defer stream.Close()

		filter := reasoningFilter{show: showReasoningTokens}

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if isDecodeError(err) {
					slog.WarnContext(ctx, "decoding stream chunk", logger.Err(err))
					if !send(domain.FailedChunk()) {
						return
					}
					continue
				}
				slog.ErrorContext(ctx, "receiving stream chunk", "model", p.cfg.Model, logger.Err(err))
				send(domain.TerminalChunk(fmt.Errorf("receiving stream chunk: %w", err)))
				return
			}

			if len(resp.Choices) == 0 {
				continue
			}
			choice := resp.Choices[0]
			if choice.FinishReason != "" {
				continue
			}

			text, ok := filter.next(choice.Delta.Content)
			if !ok || text == "" {
				continue
			}

			if !send(domain.ChunkOf(text)) {
				return
			}
		}
	}()

	return out
}

func (p *Provider) request(messages []domain.ChatMessage) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: p.cfg.SystemPrompt})
	for _, m := range messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	return openai.ChatCompletionRequest{
		Model:       p.cfg.Model,
		Messages:    msgs,
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
