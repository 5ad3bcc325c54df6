package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ottaga"

const (
	VerdictBenign     = "benign"
	VerdictMalicious  = "malicious"
	VerdictFailClosed = "fail_closed"

	OutcomeCompleted = "completed"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
	OutcomeCanceled  = "canceled"
)

var (
	ModerationVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_verdicts_total",
		Help:      "Moderation verdicts by kind.",
	}, []string{"verdict"})

	Turns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "turns_total",
		Help:      "Conversation turns by outcome.",
	}, []string{"outcome"})

	TurnDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "turn_duration_seconds",
		Help:      "Wall time from message receipt to end of the assistant reply.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	}, []string{"outcome"})

	StreamChunks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stream_chunks_total",
		Help:      "Assistant text chunks forwarded to callers.",
	})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_requests_total",
		Help:      "Model calls rejected by the per-chat rate limiter.",
	})
)
