package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dskvich/ottaga/pkg/domain"
	"github.com/dskvich/ottaga/pkg/logger"
	"github.com/dskvich/ottaga/pkg/metrics"
)

// moderationService asks a dedicated model whether a user message tries to
// manipulate the assistant. It fails closed: any error rejects the message.
type moderationService struct {
	provider  ModelProvider
	analytics Analytics
}

// NewModerationService expects a provider configured with the gate persona.
// The provider prepends it to every request.
func NewModerationService(provider ModelProvider, analytics Analytics) *moderationService {
	return &moderationService{
		provider:  provider,
		analytics: analytics,
	}
}

func (m *moderationService) CheckUserMessage(ctx context.Context, message domain.ChatMessage) domain.ModerationVerdict {
	res := m.provider.CallCompletion(ctx, []domain.ChatMessage{message}, false)
	if !res.Success {
		slog.ErrorContext(ctx, "moderation call failed, rejecting message")
		m.analytics.CaptureException("moderation call failed", map[string]any{"message": message.Content})
		metrics.ModerationVerdicts.WithLabelValues(metrics.VerdictFailClosed).Inc()
		return domain.FailClosedVerdict()
	}

	verdict, err := parseVerdict(res.Data)
	if err != nil {
		slog.ErrorContext(ctx, "parsing moderation verdict", "raw", res.Data, logger.Err(err))
		m.analytics.CaptureException("moderation verdict is not valid json", map[string]any{
			"message": message.Content,
			"raw":     res.Data,
			"error":   err.Error(),
		})
		metrics.ModerationVerdicts.WithLabelValues(metrics.VerdictFailClosed).Inc()
		return domain.FailClosedVerdict()
	}

	if !verdict.IsMalicious {
		metrics.ModerationVerdicts.WithLabelValues(metrics.VerdictBenign).Inc()
		return verdict
	}

	if strings.TrimSpace(verdict.MessageResponse) == "" {
		verdict.MessageResponse = domain.DefaultRejectionMessage
	}

	slog.InfoContext(ctx, "message rejected by moderation")
	m.analytics.Capture("malicious message", map[string]any{"message": message.Content})
	metrics.ModerationVerdicts.WithLabelValues(metrics.VerdictMalicious).Inc()

	return verdict
}

// parseVerdict accepts only an object whose isMalicious is a boolean and
// whose messageResponse is a string.
func parseVerdict(raw string) (domain.ModerationVerdict, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields); err != nil {
		return domain.ModerationVerdict{}, fmt.Errorf("decoding verdict: %w", err)
	}

	var verdict domain.ModerationVerdict

	isMalicious, ok := fields["isMalicious"]
	if !ok {
		return domain.ModerationVerdict{}, fmt.Errorf("isMalicious is missing")
	}
	if err := json.Unmarshal(isMalicious, &verdict.IsMalicious); err != nil || string(isMalicious) == "null" {
		return domain.ModerationVerdict{}, fmt.Errorf("isMalicious is not a boolean")
	}

	messageResponse, ok := fields["messageResponse"]
	if !ok {
		return domain.ModerationVerdict{}, fmt.Errorf("messageResponse is missing")
	}
	if err := json.Unmarshal(messageResponse, &verdict.MessageResponse); err != nil || string(messageResponse) == "null" {
		return domain.ModerationVerdict{}, fmt.Errorf("messageResponse is not a string")
	}

	return verdict, nil
}
