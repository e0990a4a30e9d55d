package server

import (
	"strings"

	"parley/pkg/chat"
)

// defaultFlushThreshold is how much untagged text accumulates before
// a content event goes out. Small chunks keep the client's typewriter
// rendering smooth.
const defaultFlushThreshold = 3

// Emitter converts a provider's raw token stream into the wire event
// protocol: thinking markers become thinking_start/thinking_end
// events, the text between them flows as content chunks, and the
// completion event carries the full text with markers intact.
type Emitter struct {
	messageID  string
	send       func(chat.StreamEvent) error
	flushAt    int
	buffer     string
	full       strings.Builder
	inThinking bool
}

// NewEmitter writes events for messageID through send. flushAt <= 0
// selects the default threshold.
func NewEmitter(messageID string, flushAt int, send func(chat.StreamEvent) error) *Emitter {
	if flushAt <= 0 {
		flushAt = defaultFlushThreshold
	}
	return &Emitter{
		messageID: messageID,
		send:      send,
		flushAt:   flushAt,
	}
}

// Start announces the stream.
func (e *Emitter) Start() error {
	return e.send(chat.StartEvent(e.messageID))
}

// Token feeds one raw chunk from the provider.
func (e *Emitter) Token(token string) error {
	e.full.WriteString(token)
	e.buffer += token
	return e.processBuffer()
}

// End flushes whatever remains and completes the stream. A trailing
// partial marker is real text once the stream ends, so it flushes
// too.
func (e *Emitter) End() error {
	if e.buffer != "" {
		if err := e.send(chat.ContentEvent(e.messageID, e.buffer)); err != nil {
			return err
		}
		e.buffer = ""
	}
	return e.send(chat.CompleteEvent(e.messageID, e.full.String()))
}

// Fail reports a provider failure to the client.
func (e *Emitter) Fail(err error) error {
	return e.send(chat.ErrorEvent(e.messageID, err.Error()))
}

// FullContent returns everything received so far, markers included.
func (e *Emitter) FullContent() string {
	return e.full.String()
}

// processBuffer drains the buffer: complete markers become events,
// untagged runs flush as content once they pass the threshold. A
// buffer suffix that could still grow into a marker is held back
// until the next token decides it.
func (e *Emitter) processBuffer() error {
	for {
		marker := chat.OpenMarker
		eventFor := chat.ThinkingStartEvent
		if e.inThinking {
			marker = chat.CloseMarker
			eventFor = chat.ThinkingEndEvent
		}

		if idx := strings.Index(e.buffer, marker); idx >= 0 {
			if idx > 0 {
				if err := e.send(chat.ContentEvent(e.messageID, e.buffer[:idx])); err != nil {
					return err
				}
			}
			if err := e.send(eventFor(e.messageID)); err != nil {
				return err
			}
			e.inThinking = !e.inThinking
			e.buffer = e.buffer[idx+len(marker):]
			continue
		}

		flushable := len(e.buffer) - markerHoldback(e.buffer, marker)
		if flushable >= e.flushAt {
			if err := e.send(chat.ContentEvent(e.messageID, e.buffer[:flushable])); err != nil {
				return err
			}
			e.buffer = e.buffer[flushable:]
		}
		return nil
	}
}

// markerHoldback returns the length of the longest buffer suffix that
// is a proper prefix of marker.
func markerHoldback(buffer, marker string) int {
	max := len(marker) - 1
	if max > len(buffer) {
		max = len(buffer)
	}
	for n := max; n > 0; n-- {
		if strings.HasPrefix(marker, buffer[len(buffer)-n:]) {
			return n
		}
	}
	return 0
}
