// Package server is the SSE side of the widget: an HTTP endpoint that
// turns a prompt into the stream event protocol, backed by a
// streaming LLM provider.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"parley/pkg/chat"
	"parley/pkg/llm"
	"parley/pkg/logger"
	"parley/pkg/streaming"
)

var serverLog = logger.WithComponent("server")

// processedLimit bounds the duplicate-suppression set; beyond it the
// set resets rather than growing without bound.
const processedLimit = 1000

// Handler serves the chat SSE endpoint plus stream status and stop.
// FlushThreshold and KeepAliveEvery may be adjusted before the
// handler starts serving.
type Handler struct {
	Provider       llm.Provider
	FlushThreshold int
	KeepAliveEvery time.Duration

	registry  *Registry
	mu        sync.Mutex
	processed map[string]struct{}
}

// NewHandler builds a handler around provider with the original
// protocol defaults.
func NewHandler(provider llm.Provider) *Handler {
	return &Handler{
		Provider:       provider,
		FlushThreshold: defaultFlushThreshold,
		KeepAliveEvery: 30 * time.Second,
		registry:       NewRegistry(),
		processed:      make(map[string]struct{}),
	}
}

// Router mounts the SSE routes.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/sse/chat", h.handleChat).Methods(http.MethodGet)
	r.HandleFunc("/api/sse/status/{message_id}", h.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/sse/stop/{message_id}", h.handleStop).Methods(http.MethodPost)
	return r
}

// Registry exposes the active-stream registry, mainly for tests and
// embedding servers.
func (h *Handler) Registry() *Registry {
	return h.registry
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prompt := q.Get("prompt")
	messageID := q.Get("message_id")

	if prompt == "" || messageID == "" {
		serverLog.Error("Missing prompt or message_id in SSE request")
		http.Error(w, "Missing required parameters", http.StatusBadRequest)
		return
	}

	serverLog.Info("Starting SSE stream", "message_id", messageID, "prompt_len", len(prompt))

	if !h.markProcessed(messageID) {
		serverLog.Info("Message already processed, skipping", "message_id", messageID)
		fmt.Fprint(w, "Message already processed")
		return
	}

	sw, err := streaming.NewWriter(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	h.registry.Register(messageID, prompt, cancel)
	defer h.registry.Remove(messageID)

	events := make(chan chat.StreamEvent, 100)
	go h.generate(ctx, messageID, prompt, events)

	keepAlive := time.NewTicker(h.KeepAliveEvery)
	defer keepAlive.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := sw.Send(ev); err != nil {
				serverLog.Warn("Client went away mid-stream", "message_id", messageID, "error", err)
				cancel()
				return
			}
		case <-keepAlive.C:
			if err := sw.KeepAlive(); err != nil {
				cancel()
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// generate runs the provider and feeds the event channel through an
// emitter. Always closes events.
func (h *Handler) generate(ctx context.Context, messageID, prompt string, events chan<- chat.StreamEvent) {
	defer close(events)

	emitter := NewEmitter(messageID, h.FlushThreshold, func(ev chat.StreamEvent) error {
		select {
		case events <- ev:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	if err := emitter.Start(); err != nil {
		return
	}

	err := h.Provider.Stream(ctx, prompt, func(chunk string) error {
		h.registry.AddContent(messageID, len(chunk))
		return emitter.Token(chunk)
	})
	if err != nil {
		// A cancelled stream closes without a terminal event; the
		// client finalizes it as a lost connection. Only genuine
		// provider failures go out as error events.
		if ctx.Err() != nil {
			serverLog.Info("Stream canceled", "message_id", messageID)
			return
		}
		serverLog.Error("Provider stream failed", "message_id", messageID, "error", err)
		emitter.Fail(err)
		return
	}

	if err := emitter.End(); err != nil {
		serverLog.Warn("Completing stream failed", "message_id", messageID, "error", err)
	}
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	messageID := mux.Vars(r)["message_id"]
	status := h.registry.Status(messageID)

	w.Header().Set("Content-Type", "application/json")
	resp := map[string]any{"active": status.Active}
	if status.Active {
		resp["duration"] = status.Duration.Seconds()
		resp["content_length"] = status.ContentLength
	}
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) handleStop(w http.ResponseWriter, r *http.Request) {
	messageID := mux.Vars(r)["message_id"]
	stopped := h.registry.Stop(messageID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"stopped": stopped})
}

// markProcessed records messageID, reporting false for a duplicate.
func (h *Handler) markProcessed(messageID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, seen := h.processed[messageID]; seen {
		return false
	}
	if len(h.processed) > processedLimit {
		h.processed = make(map[string]struct{})
	}
	h.processed[messageID] = struct{}{}
	return true
}
