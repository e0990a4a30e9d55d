package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is one finalized turn in the conversation. User messages get
// a client-assigned uuid; assistant messages keep the server-issued
// stream id so thinking span ids stay stable across re-renders.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Parts     []Part    `json:"parts,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Part is one element of a structured message body. Text parts carry
// Text; attachment parts carry Name/MimeType/Data; table and graph
// parts carry their payload as raw JSON in Data.
type Part struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Data     string `json:"data,omitempty"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleError     = "error"
)

const (
	PartText       = "text"
	PartAttachment = "attachment"
	PartTable      = "table"
	PartGraph      = "graph"
)

func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   strings.TrimSpace(content),
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage builds the finalized assistant turn for a
// completed stream. id is the server-issued message id.
func NewAssistantMessage(id, content string) Message {
	return Message{
		ID:        id,
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func NewSystemMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleSystem,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func NewErrorMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleError,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessageWithParts builds a structured user message. Content
// holds the concatenated text parts so plain-text consumers still work.
func NewUserMessageWithParts(parts []Part) Message {
	var text []string
	for _, p := range parts {
		if p.Type == PartText && strings.TrimSpace(p.Text) != "" {
			text = append(text, strings.TrimSpace(p.Text))
		}
	}
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   strings.Join(text, "\n"),
		Parts:     parts,
		Timestamp: time.Now(),
	}
}

func TextPart(text string) Part {
	return Part{Type: PartText, Text: text}
}

func AttachmentPart(name, mimeType, data string) Part {
	return Part{Type: PartAttachment, Name: name, MimeType: mimeType, Data: data}
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

func (m Message) IsSystem() bool {
	return m.Role == RoleSystem
}

func (m Message) IsError() bool {
	return m.Role == RoleError
}

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == "" && len(m.Parts) == 0
}

func (m Message) WithTimestamp(t time.Time) Message {
	m.Timestamp = t
	return m
}
