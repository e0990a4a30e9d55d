package controllers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"parley/pkg/chat"
	"parley/pkg/events"
	"parley/pkg/logger"
	"parley/pkg/store"
	"parley/pkg/streaming"
)

var widgetLog = logger.WithComponent("widget_controller")

// Options configure a WidgetController.
type Options struct {
	Endpoint      string
	Store         store.KV
	Bus           *events.Bus
	AutoCollapse  bool
	CollapseDelay time.Duration
}

// WidgetController owns the chat widget's state: the durable message
// list, live streaming sessions, thinking-section disclosure and the
// typing indicator. All mutation flows through Send, Stop, ClearAll
// and the event pump; renderers only ever consume snapshots.
type WidgetController struct {
	history    *chat.History
	sessions   *chat.SessionTracker
	disclosure *chat.DisclosureTracker
	dispatcher *chat.Dispatcher
	source     *streaming.EventSource
	bus        *events.Bus

	mu       sync.Mutex
	typing   bool
	ordinals map[string]int
}

// NewWidgetController builds the controller and loads any persisted
// history from opts.Store. Bus may be nil when nothing subscribes.
func NewWidgetController(ctx context.Context, opts Options) (*WidgetController, error) {
	history, err := chat.NewHistory(ctx, opts.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	c := &WidgetController{
		history:    history,
		sessions:   chat.NewSessionTracker(),
		disclosure: chat.NewDisclosureTracker(opts.Store, opts.AutoCollapse, opts.CollapseDelay),
		source:     streaming.NewEventSource(opts.Endpoint),
		bus:        opts.Bus,
		ordinals:   make(map[string]int),
	}
	c.dispatcher = chat.NewDispatcher(c.sessions, history, c)
	c.disclosure.SetOnChange(func(spanID string) {
		c.publish(events.EventDisclosureChanged, events.DisclosureChangedPayload{
			SpanID:   spanID,
			Expanded: c.disclosure.Expanded(spanID),
		})
	})
	return c, nil
}

// Send records the user message, announces it on the bus and opens a
// stream for the response. The response arrives through the pump; the
// returned message is the user's own. Refused while a response is
// still streaming.
func (c *WidgetController) Send(ctx context.Context, content string) (chat.Message, error) {
	if strings.TrimSpace(content) == "" {
		return chat.Message{}, fmt.Errorf("message content cannot be empty")
	}
	if c.dispatcher.IsStreaming() {
		return chat.Message{}, fmt.Errorf("a response is still streaming")
	}

	msg := chat.NewUserMessage(content)
	if err := c.history.Add(msg); err != nil {
		return chat.Message{}, fmt.Errorf("failed to record message: %w", err)
	}
	c.publish(events.EventNewMessage, events.NewMessagePayload{Message: msg})

	streamID := uuid.NewString()
	c.setTyping(true)

	ch, err := c.source.Open(ctx, content, streamID)
	if err != nil {
		c.setTyping(false)
		widgetLog.Error("Opening stream failed", "error", err)
		if addErr := c.history.Add(chat.NewErrorMessage(chat.ConnectionErrorText)); addErr != nil {
			widgetLog.Error("Recording error message failed", "error", addErr)
		}
		c.publish(events.EventStreamError, events.StreamErrorPayload{MessageID: streamID, Error: err.Error()})
		return msg, fmt.Errorf("failed to open stream: %w", err)
	}

	go c.pump(streamID, ch)
	return msg, nil
}

// Stop is the user-initiated cancellation: every live session
// finalizes with the stop text and the connection is released.
func (c *WidgetController) Stop() {
	c.setTyping(false)
	c.dispatcher.StopAll()
	c.source.Close()
}

// ClearAll stops anything in flight and erases the message list.
func (c *WidgetController) ClearAll() error {
	c.Stop()
	if err := c.history.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	c.publish(events.EventHistoryCleared, nil)
	return nil
}

// ToggleThinking flips one thinking section open or closed,
// persisting the user's choice. Returns the new state.
func (c *WidgetController) ToggleThinking(spanID string) bool {
	expanded := c.disclosure.Toggle(spanID)
	c.publish(events.EventDisclosureChanged, events.DisclosureChangedPayload{
		SpanID:   spanID,
		Expanded: expanded,
	})
	return expanded
}

// GetHistory returns the finalized messages in order.
func (c *WidgetController) GetHistory() []chat.Message {
	return c.history.GetMessages()
}

// IsStreaming reports whether any response is still in flight.
func (c *WidgetController) IsStreaming() bool {
	return c.dispatcher.IsStreaming()
}

// Close tears the widget down: the transport closes and pending
// auto-collapse timers are cancelled. A stream still in flight
// finalizes through the usual transport-loss path.
func (c *WidgetController) Close() {
	c.source.Close()
	c.disclosure.Close()
}

// pump applies one connection's events in arrival order, then settles
// whatever that connection leaves behind: sessions still live when it
// closes were cut off mid-stream.
func (c *WidgetController) pump(streamID string, ch <-chan chat.StreamEvent) {
	seen := map[string]struct{}{streamID: {}}
	sawEvent := false
	for ev := range ch {
		sawEvent = true
		if ev.MessageID != "" {
			seen[ev.MessageID] = struct{}{}
		}
		c.observe(ev)
		c.dispatcher.Dispatch(ev)
	}

	if err := c.source.Err(); err != nil {
		widgetLog.Warn("Stream transport failed", "stream_id", streamID, "error", err)
	}

	c.setTyping(false)

	if !sawEvent {
		// The server accepted the request but never streamed.
		widgetLog.Warn("Stream closed without events", "stream_id", streamID)
		if err := c.history.Add(chat.NewErrorMessage(chat.ConnectionErrorText)); err != nil {
			widgetLog.Error("Recording error message failed", "error", err)
		}
		c.publish(events.EventStreamError, events.StreamErrorPayload{MessageID: streamID, Error: "stream closed without events"})
		return
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	c.dispatcher.ConnectionLost(ids...)

	c.mu.Lock()
	for _, id := range ids {
		delete(c.ordinals, id)
	}
	c.mu.Unlock()
}

// observe runs the controller's own reactions ahead of the
// dispatcher: the typing indicator clears on the first response
// event, and closing thinking spans feed the disclosure tracker with
// their ordinal-derived span ids.
func (c *WidgetController) observe(ev chat.StreamEvent) {
	switch ev.Type {
	case chat.EventStreamStart:
		c.mu.Lock()
		c.typing = false
		c.ordinals[ev.MessageID] = 0
		c.mu.Unlock()

	case chat.EventThinkingEnd:
		c.mu.Lock()
		ordinal := c.ordinals[ev.MessageID]
		c.ordinals[ev.MessageID] = ordinal + 1
		c.mu.Unlock()
		c.disclosure.SpanCompleted(chat.SpanID(ev.MessageID, ordinal))

	case chat.EventStreamComplete:
		// A span still open at completion finalizes now.
		if view, ok := c.sessions.Get(ev.MessageID); ok && view.InThinking {
			c.mu.Lock()
			ordinal := c.ordinals[ev.MessageID]
			c.mu.Unlock()
			c.disclosure.SpanCompleted(chat.SpanID(ev.MessageID, ordinal))
		}
		c.clearStream(ev.MessageID)

	case chat.EventError:
		c.clearStream(ev.MessageID)
	}
}

func (c *WidgetController) clearStream(messageID string) {
	c.mu.Lock()
	delete(c.ordinals, messageID)
	c.typing = false
	c.mu.Unlock()
}

func (c *WidgetController) setTyping(v bool) {
	c.mu.Lock()
	c.typing = v
	c.mu.Unlock()
}

func (c *WidgetController) publish(eventType string, payload interface{}) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(eventType, payload, "widget_controller")
}

// StreamStarted implements chat.Sink.
func (c *WidgetController) StreamStarted(messageID string) {
	c.publish(events.EventStreamStarted, events.StreamStartedPayload{MessageID: messageID})
}

// StreamingComplete implements chat.Sink.
func (c *WidgetController) StreamingComplete(messageID string) {
	c.publish(events.EventStreamingComplete, events.StreamingCompletePayload{MessageID: messageID})
}

// StreamError implements chat.Sink.
func (c *WidgetController) StreamError(messageID, errMsg string) {
	c.setTyping(false)
	c.publish(events.EventStreamError, events.StreamErrorPayload{MessageID: messageID, Error: errMsg})
}
