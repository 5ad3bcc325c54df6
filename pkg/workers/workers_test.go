package workers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/ottaga/pkg/domain"
)

type funcWorker struct {
	name string
	fn   func(ctx context.Context) error
}

func (f funcWorker) Name() string                    { return f.name }
func (f funcWorker) Start(ctx context.Context) error { return f.fn(ctx) }

func TestGroup_StopsAllOnFailure(t *testing.T) {
	blocking := funcWorker{name: "blocking", fn: func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}}
	failing := funcWorker{name: "failing", fn: func(context.Context) error {
		return errors.New("boom")
	}}

	err := Group{blocking, failing}.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing: boom")
}

func TestGroup_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})

	w := funcWorker{name: "w", fn: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return nil
	}}

	done := make(chan error)
	go func() { done <- Group{w}.Start(ctx) }()

	<-started
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("group did not stop")
	}
}

func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestHTTPServer_ServesUntilCancelled(t *testing.T) {
	addr := freeAddr(t)
	srv := NewHTTPServer(addr, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "ok")
	}), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- srv.Start(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return string(body) == "ok"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

type fakeTelegramClient struct {
	updates chan tgbotapi.Update

	mu      sync.Mutex
	sent    []domain.Response
	typing  []int64
	stopped bool
}

func (f *fakeTelegramClient) GetUpdates() tgbotapi.UpdatesChannel { return f.updates }

func (f *fakeTelegramClient) StopUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeTelegramClient) SendResponse(_ context.Context, r *domain.Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, *r)
}

func (f *fakeTelegramClient) StartTyping(_ context.Context, chatID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typing = append(f.typing, chatID)
}

func (f *fakeTelegramClient) responses() []domain.Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Response(nil), f.sent...)
}

type allowList map[int64]bool

func (a allowList) IsAuthorized(userID int64) bool { return a[userID] }

type echoHandler struct {
	responseCh chan<- domain.Response
}

func (e echoHandler) HandleUpdate(ctx context.Context, u *tgbotapi.Update) {
	e.responseCh <- domain.Response{ChatID: u.Message.Chat.ID, Text: "echo: " + u.Message.Text}
}

func TestTelegramUpdateListener(t *testing.T) {
	client := &fakeTelegramClient{updates: make(chan tgbotapi.Update)}
	responseCh := make(chan domain.Response)
	listener := NewTelegramUpdateListener(client, allowList{1: true}, echoHandler{responseCh: responseCh}, responseCh)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- listener.Start(ctx) }()

	client.updates <- tgbotapi.Update{UpdateID: 1, Message: &tgbotapi.Message{
		Text: "hi", Chat: &tgbotapi.Chat{ID: 10}, From: &tgbotapi.User{ID: 1},
	}}
	client.updates <- tgbotapi.Update{UpdateID: 2, Message: &tgbotapi.Message{
		Text: "let me in", Chat: &tgbotapi.Chat{ID: 20}, From: &tgbotapi.User{ID: 2},
	}}

	require.Eventually(t, func() bool { return len(client.responses()) == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	byChat := map[int64]string{}
	for _, r := range client.responses() {
		byChat[r.ChatID] = r.Text
	}
	assert.Equal(t, "echo: hi", byChat[10])
	assert.Equal(t, "User ID 2 is not authorized", byChat[20])
	assert.True(t, client.stopped)
}
