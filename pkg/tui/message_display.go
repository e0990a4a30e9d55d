package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"parley/pkg/chat"
	"parley/pkg/controllers"
)

// Span is a run of styled text inside one transcript line.
type Span struct {
	Text  string
	Style tcell.Style
}

// Line is one rendered transcript row. SectionID is set on thinking
// headers so clicks and the Tab binding can resolve which disclosure
// to toggle.
type Line struct {
	Spans     []Span
	SectionID string
}

func (l Line) Text() string {
	var b strings.Builder
	for _, span := range l.Spans {
		b.WriteString(span.Text)
	}
	return b.String()
}

// MessageDisplay projects controller views into transcript lines.
// Scroll counts lines up from the tail; TargetID marks the thinking
// section the Tab binding currently addresses.
type MessageDisplay struct {
	Views        []controllers.MessageView
	Width        int
	Scroll       int
	ShowThinking bool
	TargetID     string
}

func NewMessageDisplay(width int) MessageDisplay {
	return MessageDisplay{
		Views:        nil,
		Width:        width,
		Scroll:       0,
		ShowThinking: true,
		TargetID:     "",
	}
}

func (md MessageDisplay) WithViews(views []controllers.MessageView) MessageDisplay {
	updated := md
	updated.Views = views
	return updated
}

func (md MessageDisplay) WithWidth(width int) MessageDisplay {
	updated := md
	updated.Width = width
	return updated
}

func (md MessageDisplay) WithScroll(scroll int) MessageDisplay {
	updated := md
	if scroll < 0 {
		scroll = 0
	}
	updated.Scroll = scroll
	return updated
}

func (md MessageDisplay) WithShowThinking(show bool) MessageDisplay {
	updated := md
	updated.ShowThinking = show
	return updated
}

func (md MessageDisplay) WithTarget(sectionID string) MessageDisplay {
	updated := md
	updated.TargetID = sectionID
	return updated
}

// SectionIDs lists every thinking section in transcript order.
func (md MessageDisplay) SectionIDs() []string {
	var ids []string
	if !md.ShowThinking {
		return ids
	}
	for _, view := range md.Views {
		for _, section := range view.Sections {
			ids = append(ids, section.SpanID)
		}
	}
	return ids
}

// Lines flattens the views into styled, wrapped transcript rows.
func (md MessageDisplay) Lines() []Line {
	if md.Width <= 0 {
		return nil
	}

	var lines []Line
	for i, view := range md.Views {
		if i > 0 {
			lines = append(lines, Line{})
		}
		lines = append(lines, md.viewLines(view)...)
	}
	return lines
}

func (md MessageDisplay) viewLines(view controllers.MessageView) []Line {
	prefix := fmt.Sprintf("[%s] %s: ", view.Timestamp.Format("15:04"), roleLabel(view.Role))
	style := roleStyle(view.Role)

	var lines []Line
	first := true

	// Thinking precedes the reply, so sections render between the
	// attribution line and the body.
	if md.ShowThinking && len(view.Sections) > 0 {
		lines = append(lines, Line{Spans: []Span{
			{Text: strings.TrimRight(prefix, " "), Style: style},
		}})
		first = false
		for _, section := range view.Sections {
			lines = append(lines, md.sectionLines(section)...)
		}
	}

	body := view.Main
	indent := strings.Repeat(" ", len(prefix))
	for _, segment := range SplitCodeFences(body) {
		if segment.Code {
			if first {
				lines = append(lines, Line{Spans: []Span{{Text: prefix, Style: style}}})
				first = false
			}
			for _, spans := range HighlightLines(segment.Text, segment.Language) {
				row := []Span{{Text: "  ", Style: StyleCodeText}}
				row = append(row, spans...)
				lines = append(lines, Line{Spans: row})
			}
			continue
		}

		for _, wrapped := range WrapText(segment.Text, md.Width-len(prefix)) {
			if first {
				lines = append(lines, Line{Spans: []Span{
					{Text: prefix, Style: style},
					{Text: wrapped, Style: style},
				}})
				first = false
				continue
			}
			lines = append(lines, Line{Spans: []Span{
				{Text: indent, Style: style},
				{Text: wrapped, Style: style},
			}})
		}
	}

	// A view with no body yet still gets its prefix row, so a stream
	// that is all thinking so far is visibly attributed.
	if first {
		lines = append(lines, Line{Spans: []Span{
			{Text: strings.TrimRight(prefix, " "), Style: style},
		}})
	}

	return lines
}

func (md MessageDisplay) sectionLines(section controllers.ThinkingSection) []Line {
	marker := "▸"
	if section.Expanded {
		marker = "▾"
	}
	label := "thinking"
	if !section.Complete {
		label = "thinking…"
	}

	style := StyleThinkingHeader
	if section.SpanID == md.TargetID {
		style = StyleThinkingTarget
	}

	lines := []Line{{
		Spans:     []Span{{Text: fmt.Sprintf("  %s %s", marker, label), Style: style}},
		SectionID: section.SpanID,
	}}

	if !section.Expanded {
		return lines
	}

	for _, wrapped := range WrapText(section.Content, md.Width-4) {
		lines = append(lines, Line{Spans: []Span{
			{Text: "    ", Style: StyleThinkingText},
			{Text: wrapped, Style: StyleThinkingText},
		}})
	}

	return lines
}

func roleLabel(role string) string {
	switch role {
	case chat.RoleUser:
		return "You"
	case chat.RoleAssistant:
		return "Assistant"
	case chat.RoleSystem:
		return "System"
	case chat.RoleError:
		return "Error"
	default:
		return role
	}
}

func roleStyle(role string) tcell.Style {
	switch role {
	case chat.RoleUser:
		return StyleUserText
	case chat.RoleAssistant:
		return StyleAssistantText
	case chat.RoleSystem:
		return StyleSystemText
	case chat.RoleError:
		return StyleErrorText
	default:
		return tcell.StyleDefault
	}
}
