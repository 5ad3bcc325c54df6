package analytics

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

type client struct {
	hub *sentry.Hub
}

// NewSentry returns a client that reports to the given DSN. An empty DSN
// yields a no-op client.
func NewSentry(dsn, environment string) (*client, error) {
	if dsn == "" {
		slog.Info("sentry dsn is empty, analytics disabled")
		return &client{}, nil
	}

	return newClient(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
}

func newClient(opts sentry.ClientOptions) (*client, error) {
	sc, err := sentry.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("creating sentry client: %w", err)
	}

	return &client{hub: sentry.NewHub(sc, sentry.NewScope())}, nil
}

// CaptureException reports a handled failure with its context.
func (c *client) CaptureException(description string, properties map[string]any) {
	if c.hub == nil {
		return
	}
	// Each report gets its own hub so concurrent turns never share a scope.
	hub := c.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetContext("details", toContext(properties))
	})
	hub.CaptureException(errors.New(description))
}

// Capture records a named event.
func (c *client) Capture(event string, properties map[string]any) {
	if c.hub == nil {
		return
	}
	hub := c.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("event", event)
		scope.SetContext("properties", toContext(properties))
	})
	hub.CaptureMessage(event)
}

func (c *client) Flush(timeout time.Duration) {
	if c.hub == nil {
		return
	}
	if !c.hub.Flush(timeout) {
		slog.Warn("sentry flush timed out", "timeout", timeout)
	}
}

func toContext(properties map[string]any) map[string]interface{} {
	ctx := make(map[string]interface{}, len(properties))
	for k, v := range properties {
		ctx[k] = v
	}
	return ctx
}
