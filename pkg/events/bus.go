package events

import (
	"sync"
	"time"

	"parley/pkg/chat"
	"parley/pkg/logger"
)

// Event is one notification crossing the widget boundary.
type Event struct {
	Type      string
	Payload   interface{}
	Source    string
	Timestamp time.Time
}

// Handler is a function that handles events.
type Handler func(event Event)

// Bus carries the widget's outbound notifications to whatever hosts
// it: the TUI, an embedding application, tests.
type Bus struct {
	handlers map[string][]Handler
	mutex    sync.RWMutex
	log      *logger.Logger
	buffer   chan Event
	done     chan struct{}
}

// NewBus creates a bus and starts its delivery goroutine.
func NewBus() *Bus {
	bus := &Bus{
		handlers: make(map[string][]Handler),
		log:      logger.WithComponent("event_bus"),
		buffer:   make(chan Event, 100),
		done:     make(chan struct{}),
	}

	go bus.processEvents()

	return bus
}

// Subscribe adds a handler for a specific event type. Subscribe to
// "*" to receive every event.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.log.Debug("Handler subscribed", "eventType", eventType)
}

// Unsubscribe removes all handlers for an event type. Function values
// cannot be compared, so removal is per-type, not per-handler.
func (b *Bus) Unsubscribe(eventType string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if len(b.handlers[eventType]) > 0 {
		b.handlers[eventType] = nil
		b.log.Debug("Handlers unsubscribed", "eventType", eventType)
	}
}

// Publish queues an event for asynchronous delivery. Drops the event
// when the buffer is full rather than blocking a transition.
func (b *Bus) Publish(eventType string, payload interface{}, source string) {
	event := Event{
		Type:      eventType,
		Payload:   payload,
		Source:    source,
		Timestamp: time.Now(),
	}

	select {
	case b.buffer <- event:
	default:
		b.log.Warn("Event buffer full, dropping event", "type", eventType, "source", source)
	}
}

// PublishSync delivers an event to all handlers before returning.
func (b *Bus) PublishSync(eventType string, payload interface{}, source string) {
	b.deliverEvent(Event{
		Type:      eventType,
		Payload:   payload,
		Source:    source,
		Timestamp: time.Now(),
	})
}

func (b *Bus) processEvents() {
	for {
		select {
		case event := <-b.buffer:
			b.deliverEvent(event)
		case <-b.done:
			return
		}
	}
}

func (b *Bus) deliverEvent(event Event) {
	b.mutex.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	handlers = append(handlers, b.handlers["*"]...)
	b.mutex.RUnlock()

	for _, handler := range handlers {
		func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					b.log.Error("Event handler panicked", "type", event.Type, "error", r)
				}
			}()
			h(event)
		}(handler)
	}
}

// Close shuts down the delivery goroutine.
func (b *Bus) Close() {
	close(b.done)
}

// Notification types published by the widget controller.
const (
	// EventNewMessage fires when the user submits input; payload is
	// NewMessagePayload. The host persists or forwards it.
	EventNewMessage = "new_message"

	// EventStreamingComplete fires when a stream finalizes into a
	// message; payload is StreamingCompletePayload.
	EventStreamingComplete = "streaming_complete"

	EventStreamStarted     = "stream_started"
	EventStreamError       = "stream_error"
	EventHistoryCleared    = "history_cleared"
	EventDisclosureChanged = "disclosure_changed"
)

type NewMessagePayload struct {
	Message chat.Message
}

type StreamingCompletePayload struct {
	MessageID string
}

type StreamStartedPayload struct {
	MessageID string
}

type StreamErrorPayload struct {
	MessageID string
	Error     string
}

type DisclosureChangedPayload struct {
	SpanID   string
	Expanded bool
}
