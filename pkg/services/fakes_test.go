package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dskvich/ottaga/pkg/domain"
)

// recorder captures the order of collaborator calls across fakes.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type fakeProvider struct {
	name       string
	rec        *recorder
	prompt     string
	completion domain.Result[string]
	chunks     []domain.StreamChunk
	// block keeps the stream open after chunks until ctx is done.
	block bool

	mu       sync.Mutex
	requests [][]domain.ChatMessage
}

func (f *fakeProvider) SystemPrompt() string { return f.prompt }

func (f *fakeProvider) CallCompletion(_ context.Context, messages []domain.ChatMessage, _ bool) domain.Result[string] {
	f.record(messages)
	f.rec.add(f.name + ".complete")
	return f.completion
}

func (f *fakeProvider) CallStreaming(ctx context.Context, messages []domain.ChatMessage, _ bool) <-chan domain.StreamChunk {
	f.record(messages)
	f.rec.add(f.name + ".stream")

	out := make(chan domain.StreamChunk)
	go func() {
		defer close(out)
		for _, c := range f.chunks {
			select {
			case out <- c:
			case <-ctx.Done():
				return
			}
		}
		if f.block {
			<-ctx.Done()
		}
	}()
	return out
}

func (f *fakeProvider) record(messages []domain.ChatMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, messages)
}

func (f *fakeProvider) calls() [][]domain.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

type fakeModerator struct {
	rec     *recorder
	verdict domain.ModerationVerdict
	delay   time.Duration
}

func (f *fakeModerator) CheckUserMessage(_ context.Context, _ domain.ChatMessage) domain.ModerationVerdict {
	time.Sleep(f.delay)
	f.rec.add("moderation.done")
	return f.verdict
}

type fakeAnalytics struct {
	mu         sync.Mutex
	exceptions []string
	events     []string
}

func (f *fakeAnalytics) CaptureException(description string, _ map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exceptions = append(f.exceptions, description)
}

func (f *fakeAnalytics) Capture(event string, _ map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

type fakeChats struct {
	mu        sync.Mutex
	chats     map[string]*domain.Chat
	createErr error
	seq       int
}

func newFakeChats() *fakeChats {
	return &fakeChats{chats: map[string]*domain.Chat{}}
}

func (f *fakeChats) Create(_ context.Context, userID *string) (*domain.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	chat := &domain.Chat{ID: fmt.Sprintf("chat-%d", f.seq), UserID: userID, Modifiable: true, CreatedAt: time.Now()}
	f.chats[chat.ID] = chat
	return chat, nil
}

func (f *fakeChats) GetByID(_ context.Context, chatID string) (*domain.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat, ok := f.chats[chatID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *chat
	return &cp, nil
}

func (f *fakeChats) ListByUser(_ context.Context, userID string) ([]domain.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Chat
	for _, c := range f.chats {
		if c.UserID != nil && *c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeChats) Update(_ context.Context, chatID, title, description string) (*domain.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	chat, ok := f.chats[chatID]
	if !ok || !chat.Modifiable {
		return nil, domain.ErrNotFound
	}
	chat.Title, chat.Description = title, description
	cp := *chat
	return &cp, nil
}

func (f *fakeChats) Delete(_ context.Context, chatID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.chats[chatID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.chats, chatID)
	return nil
}

type fakeMessages struct {
	rec       *recorder
	mu        sync.Mutex
	stored    map[string][]domain.ChatMessage
	createErr error
}

func newFakeMessages(rec *recorder) *fakeMessages {
	return &fakeMessages{rec: rec, stored: map[string][]domain.ChatMessage{}}
}

func (f *fakeMessages) Create(_ context.Context, chatID string, msg domain.ChatMessage) error {
	f.rec.add("persist." + msg.Role)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.stored[chatID] = append(f.stored[chatID], msg)
	return nil
}

func (f *fakeMessages) GetLastByChatID(_ context.Context, chatID string, limit int) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.stored[chatID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, domain.Message{ChatID: chatID, Role: m.Role, Content: m.Content})
	}
	return out, nil
}

func (f *fakeMessages) of(chatID string) []domain.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ChatMessage(nil), f.stored[chatID]...)
}

var errBoom = errors.New("boom")

func chunks(texts ...string) []domain.StreamChunk {
	out := make([]domain.StreamChunk, 0, len(texts))
	for _, t := range texts {
		out = append(out, domain.ChunkOf(t))
	}
	return out
}

func drain(ch <-chan domain.StreamChunk) []domain.StreamChunk {
	var out []domain.StreamChunk
	for c := range ch {
		out = append(out, c)
	}
	return out
}
