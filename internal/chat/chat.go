// Package chat models an in-memory conversation with the assistant,
// including the per-message translation cache.
package chat

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/ferntree/sprout/internal/history"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn of a conversation. Translations memoizes per-language
// enrichment: a language appears as a key only once its translation has
// completed, so absence always means "not translated yet", never "failed".
type Message struct {
	Role Role
	Text string

	// Image is the base64 payload of a photo sent with the turn, if any.
	Image string

	// Card is a snapshot of a ledger item the conversation is reviewing.
	// It is copied in, never shared, so later renders see the item as it
	// was when attached.
	Card *history.Item

	Translations map[string]string
}

// Translation returns the cached translation for the language, if present.
func (m Message) Translation(language string) (string, bool) {
	s, ok := m.Translations[language]
	return s, ok
}

// Translator produces a message's text in another language.
type Translator interface {
	Translate(ctx context.Context, text, language string) (string, error)
}

// Thread is a conversation for one session. Threads are never persisted;
// the ledger holds the durable analyses, the thread only the live turns.
//
// At most one translation should be started per thread at a time. Busy
// reports an in-flight translation so the UI can disable its trigger; the
// token is advisory only (Translate never queues or coalesces) and it is
// released on every exit path, success and failure alike.
type Thread struct {
	mu          sync.Mutex
	messages    []Message
	translating int // message index in flight, -1 when idle
}

// NewThread returns an empty conversation.
func NewThread() *Thread {
	return &Thread{translating: -1}
}

// Append adds a message to the end of the conversation and returns its
// index. The card snapshot, if any, is taken here.
func (t *Thread) Append(msg Message) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if msg.Card != nil {
		card := *msg.Card
		msg.Card = &card
	}
	msg.Translations = maps.Clone(msg.Translations)
	t.messages = append(t.messages, msg)
	return len(t.messages) - 1
}

// Len returns the number of messages.
func (t *Thread) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// Messages returns a copy of the conversation. Translation maps are cloned
// so an in-flight Translate cannot race a render.
func (t *Thread) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	for i := range out {
		out[i].Translations = maps.Clone(out[i].Translations)
	}
	return out
}

// Message returns a copy of the message at index i.
func (t *Thread) Message(i int) (Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.messages) {
		return Message{}, false
	}
	msg := t.messages[i]
	msg.Translations = maps.Clone(msg.Translations)
	return msg, true
}

// Busy reports whether a translation is in flight.
func (t *Thread) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.translating >= 0
}

// Translating returns the index of the message being translated, or -1.
func (t *Thread) Translating() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.translating
}

// Translate resolves the translation of message i into the given language.
// A cached result returns immediately without consulting tr. Otherwise the
// external call runs with the in-flight token held; on success the result
// is written to the message's cache, on failure the cache key stays absent
// so the same request can be retried later.
func (t *Thread) Translate(ctx context.Context, i int, language string, tr Translator) (string, error) {
	t.mu.Lock()
	if i < 0 || i >= len(t.messages) {
		t.mu.Unlock()
		return "", fmt.Errorf("no message at index %d", i)
	}
	if cached, ok := t.messages[i].Translations[language]; ok {
		t.mu.Unlock()
		return cached, nil
	}
	text := t.messages[i].Text
	t.translating = i
	t.mu.Unlock()

	translated, err := tr.Translate(ctx, text, language)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.translating = -1
	if err != nil {
		return "", fmt.Errorf("translating to %s: %w", language, err)
	}
	if t.messages[i].Translations == nil {
		t.messages[i].Translations = make(map[string]string)
	}
	t.messages[i].Translations[language] = translated
	return translated, nil
}
