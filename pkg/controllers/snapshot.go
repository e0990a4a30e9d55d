package controllers

import (
	"time"

	"parley/pkg/chat"
)

// ThinkingSection is one collapsible reasoning block inside a
// rendered message.
type ThinkingSection struct {
	SpanID   string
	Content  string
	Complete bool
	Expanded bool
}

// MessageView is one rendered chat entry, either a finalized message
// or a live streaming session.
type MessageView struct {
	ID        string
	Role      string
	Sections  []ThinkingSection
	Main      string
	Timestamp time.Time
	Streaming bool
}

// Snapshot is the renderer's complete view of the widget at one
// point in time. It shares nothing with the controller's own state.
type Snapshot struct {
	Messages  []MessageView
	Typing    bool
	Streaming bool
}

// Snapshot projects the widget for rendering: finalized history
// first, live sessions after, thinking content split out with its
// disclosure state resolved.
func (c *WidgetController) Snapshot() Snapshot {
	c.mu.Lock()
	typing := c.typing
	ordinals := make(map[string]int, len(c.ordinals))
	for id, n := range c.ordinals {
		ordinals[id] = n
	}
	c.mu.Unlock()

	msgs := c.history.GetMessages()
	views := make([]MessageView, 0, len(msgs)+1)
	for _, msg := range msgs {
		views = append(views, c.finalizedView(msg))
	}
	for _, s := range c.sessions.Views() {
		views = append(views, c.liveView(s, ordinals[s.MessageID]))
	}

	return Snapshot{
		Messages:  views,
		Typing:    typing,
		Streaming: c.dispatcher.IsStreaming(),
	}
}

// finalizedView re-parses a stored message so historical thinking
// spans render as sections with their persisted disclosure state.
func (c *WidgetController) finalizedView(msg chat.Message) MessageView {
	view := MessageView{
		ID:        msg.ID,
		Role:      msg.Role,
		Main:      msg.Content,
		Timestamp: msg.Timestamp,
	}
	if !msg.IsAssistant() {
		return view
	}

	parsed := chat.ParseThinking(msg.Content).Finalized()
	view.Main = parsed.Main
	for _, span := range parsed.Spans {
		id := chat.SpanID(msg.ID, span.Ordinal)
		view.Sections = append(view.Sections, ThinkingSection{
			SpanID:   id,
			Content:  span.Content,
			Complete: span.Complete,
			Expanded: c.disclosure.Expanded(id),
		})
	}
	return view
}

// liveView renders an in-flight session. Accumulated thinking shows
// as a single section keyed by the span currently (or most recently)
// open, held visible while text is still arriving into it.
func (c *WidgetController) liveView(s chat.SessionView, ordinal int) MessageView {
	view := MessageView{
		ID:        s.MessageID,
		Role:      s.Role,
		Main:      s.Main,
		Timestamp: s.StartTime,
		Streaming: true,
	}
	if s.Thinking == "" {
		return view
	}

	if !s.InThinking && ordinal > 0 {
		ordinal--
	}
	id := chat.SpanID(s.MessageID, ordinal)
	expanded := c.disclosure.Expanded(id)
	if s.InThinking {
		expanded = c.disclosure.Forced(id, true)
	}
	view.Sections = append(view.Sections, ThinkingSection{
		SpanID:   id,
		Content:  s.Thinking,
		Complete: !s.InThinking,
		Expanded: expanded,
	})
	return view
}
