package chat

import (
	"sync"

	"parley/pkg/logger"
)

var dispatchLog = logger.WithComponent("dispatcher")

// Fixed texts for the two finalization paths that do not come from
// the server: user-initiated stop and transport loss.
const (
	StoppedByUserText   = "Response stopped by user."
	ConnectionErrorText = "Connection error. Please try again."
)

// Sink receives the dispatcher's outbound notifications. The host
// uses StreamingComplete to persist or act on a finished turn and
// StreamError to clear its pending-response indicator.
type Sink interface {
	StreamStarted(messageID string)
	StreamingComplete(messageID string)
	StreamError(messageID, errMsg string)
}

// Dispatcher maps stream events onto session transitions. Each
// Dispatch call is one atomic transition: events are applied in
// arrival order with no interleaving, matching the in-order delivery
// the transport guarantees per connection.
type Dispatcher struct {
	mu        sync.Mutex
	sessions  *SessionTracker
	history   *History
	sink      Sink
	streaming bool
}

// NewDispatcher wires the dispatcher to its owned state. sink may be
// nil when the host does not care about notifications.
func NewDispatcher(sessions *SessionTracker, history *History, sink Sink) *Dispatcher {
	return &Dispatcher{
		sessions: sessions,
		history:  history,
		sink:     sink,
	}
}

// Dispatch applies one event. Unknown event types are ignored so the
// widget keeps working against newer servers.
func (d *Dispatcher) Dispatch(ev StreamEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch ev.Type {
	case EventStreamStart:
		d.sessions.Start(ev.MessageID, ev.Role)
		d.streaming = true
		dispatchLog.Debug("Stream started", "message_id", ev.MessageID)
		if d.sink != nil {
			d.sink.StreamStarted(ev.MessageID)
		}

	case EventContent:
		d.sessions.Append(ev.MessageID, ev.Chunk)

	case EventThinkingStart:
		if !d.sessions.SetThinking(ev.MessageID, true) {
			dispatchLog.Debug("Thinking start for unknown session", "message_id", ev.MessageID)
		}

	case EventThinkingEnd:
		if !d.sessions.SetThinking(ev.MessageID, false) {
			dispatchLog.Debug("Thinking end for unknown session", "message_id", ev.MessageID)
		}

	case EventStreamComplete:
		d.complete(ev)

	case EventError:
		d.fail(ev)

	default:
		dispatchLog.Debug("Ignoring unknown stream event", "type", ev.Type, "message_id", ev.MessageID)
	}
}

// complete finalizes the session into a durable message. full_content
// wins over the raw accumulation when the server provides it.
func (d *Dispatcher) complete(ev StreamEvent) {
	view, ok := d.sessions.Take(ev.MessageID)
	if !ok {
		dispatchLog.Debug("Complete for unknown session", "message_id", ev.MessageID)
		return
	}

	content := ev.FullContent
	if content == "" {
		content = view.Raw
	}

	dispatchLog.Debug("Stream complete", "message_id", ev.MessageID, "chunks", view.ChunkCount)
	d.recordFinal(ev.MessageID, content)
	d.streaming = d.sessions.Len() > 0
}

// fail drops the session without a message. The server already chose
// to signal the failure; surfacing it is the host's call.
func (d *Dispatcher) fail(ev StreamEvent) {
	d.sessions.Drop(ev.MessageID)
	d.streaming = d.sessions.Len() > 0
	dispatchLog.Warn("Stream errored", "message_id", ev.MessageID, "error", ev.Error)
	if d.sink != nil {
		d.sink.StreamError(ev.MessageID, ev.Error)
	}
}

// StopAll is the user-initiated cancellation path. Every live session
// becomes a finalized message with the fixed stop text.
func (d *Dispatcher) StopAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, v := range d.sessions.TakeAll() {
		d.recordFinal(v.MessageID, StoppedByUserText)
	}
	d.streaming = false
}

// FailAll is the transport-loss path: the connection dropped without
// a terminal event, so every live session becomes a finalized message
// with the fixed connection-error text.
func (d *Dispatcher) FailAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, v := range d.sessions.TakeAll() {
		d.recordFinal(v.MessageID, ConnectionErrorText)
	}
	d.streaming = false
}

// ConnectionLost finalizes just the named sessions with the
// connection-error text. A host pumping one connection per stream
// uses this so a drop cannot take down sessions fed by a newer
// connection. Ids without a live session are skipped.
func (d *Dispatcher) ConnectionLost(messageIDs ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range messageIDs {
		if _, ok := d.sessions.Take(id); !ok {
			continue
		}
		d.recordFinal(id, ConnectionErrorText)
	}
	d.streaming = d.sessions.Len() > 0
}

// recordFinal appends the finalized message and notifies the sink.
// An id that already finalized is skipped: messages are immutable,
// and stale events trailing a stop must not produce a second copy.
func (d *Dispatcher) recordFinal(messageID, content string) {
	if d.history.Has(messageID) {
		dispatchLog.Debug("Skipping duplicate finalize", "message_id", messageID)
		return
	}
	msg := NewAssistantMessage(messageID, content)
	if err := d.history.Add(msg); err != nil {
		dispatchLog.Error("Persisting finalized message failed", "message_id", messageID, "error", err)
	}
	if d.sink != nil {
		d.sink.StreamingComplete(messageID)
	}
}

// IsStreaming reports whether any session is live.
func (d *Dispatcher) IsStreaming() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.streaming
}
