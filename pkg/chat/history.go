package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"parley/pkg/store"
)

// historyKey is the KV slot holding the serialized message list.
const historyKey = "chat-history"

// History is the durable ordered message list. Messages are immutable
// once added and removed only by Clear. Persistence goes through a
// store.KV so the backend (memory, file, redis) is the caller's
// choice; a nil store keeps history in process memory only.
type History struct {
	mu       sync.RWMutex
	messages []Message
	kv       store.KV
}

// NewHistory creates a history backed by kv, loading any previously
// persisted messages.
func NewHistory(ctx context.Context, kv store.KV) (*History, error) {
	h := &History{
		messages: make([]Message, 0),
		kv:       kv,
	}
	if kv != nil {
		if err := h.load(ctx); err != nil {
			return nil, fmt.Errorf("loading history: %w", err)
		}
	}
	return h, nil
}

// Add appends a finalized message and persists the list.
func (h *History) Add(msg Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages, msg)
	return h.save()
}

// Has reports whether a message with this id was already recorded.
func (h *History) Has(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, m := range h.messages {
		if m.ID == id {
			return true
		}
	}
	return false
}

// GetMessages returns a copy of all messages in order.
func (h *History) GetMessages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msgs := make([]Message, len(h.messages))
	copy(msgs, h.messages)
	return msgs
}

// GetLastN returns the most recent n messages in order.
func (h *History) GetLastN(n int) []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || len(h.messages) == 0 {
		return []Message{}
	}
	if n > len(h.messages) {
		n = len(h.messages)
	}
	result := make([]Message, n)
	copy(result, h.messages[len(h.messages)-n:])
	return result
}

// Len reports the number of messages.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Clear removes every message, the explicit clear-all action.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = make([]Message, 0)
	if h.kv == nil {
		return nil
	}
	return h.kv.Delete(context.Background(), historyKey)
}

func (h *History) load(ctx context.Context) error {
	raw, found, err := h.kv.Get(ctx, historyKey)
	if err != nil {
		return err
	}
	if !found || raw == "" {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return fmt.Errorf("unmarshaling history: %w", err)
	}
	h.messages = msgs
	return nil
}

// save persists under the lock held by the caller.
func (h *History) save() error {
	if h.kv == nil {
		return nil
	}
	raw, err := json.Marshal(h.messages)
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	return h.kv.Set(context.Background(), historyKey, string(raw))
}
