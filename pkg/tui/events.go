package tui

import "github.com/gdamore/tcell/v2"

// Custom event types posted into the tcell queue so background work
// never touches the screen from outside the event loop.

// RedrawEvent requests a repaint after widget state changed.
type RedrawEvent struct {
	tcell.EventTime
}

// TickEvent drives the typing indicator and typewriter animations.
type TickEvent struct {
	tcell.EventTime
}

// AlertEvent surfaces a transient error on the alert row.
type AlertEvent struct {
	tcell.EventTime
	Text string
}

// QuitEvent asks the event loop to exit.
type QuitEvent struct {
	tcell.EventTime
}

func NewRedrawEvent() *RedrawEvent {
	return &RedrawEvent{EventTime: tcell.EventTime{}}
}

func NewTickEvent() *TickEvent {
	return &TickEvent{EventTime: tcell.EventTime{}}
}

func NewAlertEvent(text string) *AlertEvent {
	return &AlertEvent{
		EventTime: tcell.EventTime{},
		Text:      text,
	}
}

func NewQuitEvent() *QuitEvent {
	return &QuitEvent{EventTime: tcell.EventTime{}}
}
