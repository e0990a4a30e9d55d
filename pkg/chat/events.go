package chat

import (
	"encoding/json"
	"fmt"
)

// Stream event types carried over the SSE channel. Unknown types are
// tolerated by the dispatcher for forward compatibility.
const (
	EventStreamStart    = "stream_start"
	EventContent        = "content"
	EventThinkingStart  = "thinking_start"
	EventThinkingEnd    = "thinking_end"
	EventStreamComplete = "stream_complete"
	EventError          = "error"
)

// StreamEvent is one JSON object on the wire. FullContent is only set
// on stream_complete and, when present, includes the thinking markers.
type StreamEvent struct {
	Type        string `json:"type"`
	MessageID   string `json:"message_id"`
	Role        string `json:"role,omitempty"`
	Chunk       string `json:"chunk,omitempty"`
	FullContent string `json:"full_content,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ParseStreamEvent decodes one event payload. A malformed payload is
// an error on this one event only; callers drop it and keep reading.
func ParseStreamEvent(data []byte) (StreamEvent, error) {
	var ev StreamEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return StreamEvent{}, fmt.Errorf("decoding stream event: %w", err)
	}
	if ev.Type == "" {
		return StreamEvent{}, fmt.Errorf("stream event missing type")
	}
	return ev, nil
}

// Encode renders the event as its wire JSON.
func (ev StreamEvent) Encode() ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encoding stream event: %w", err)
	}
	return data, nil
}

func StartEvent(messageID string) StreamEvent {
	return StreamEvent{Type: EventStreamStart, MessageID: messageID, Role: RoleAssistant}
}

func ContentEvent(messageID, chunk string) StreamEvent {
	return StreamEvent{Type: EventContent, MessageID: messageID, Chunk: chunk}
}

func ThinkingStartEvent(messageID string) StreamEvent {
	return StreamEvent{Type: EventThinkingStart, MessageID: messageID}
}

func ThinkingEndEvent(messageID string) StreamEvent {
	return StreamEvent{Type: EventThinkingEnd, MessageID: messageID}
}

func CompleteEvent(messageID, fullContent string) StreamEvent {
	return StreamEvent{Type: EventStreamComplete, MessageID: messageID, FullContent: fullContent}
}

func ErrorEvent(messageID, msg string) StreamEvent {
	return StreamEvent{Type: EventError, MessageID: messageID, Error: msg}
}
