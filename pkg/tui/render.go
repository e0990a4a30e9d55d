package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// StatusBar carries what the bottom row shows.
type StatusBar struct {
	Endpoint  string
	Messages  int
	Typing    bool
	Streaming bool
}

func (sb StatusBar) state() string {
	switch {
	case sb.Typing:
		return "waiting"
	case sb.Streaming:
		return "streaming"
	default:
		return "ready"
	}
}

// RenderLines paints pre-windowed transcript lines into the area.
func RenderLines(screen tcell.Screen, lines []Line, area Rect) {
	if area.Width <= 0 || area.Height <= 0 {
		return
	}

	clearArea(screen, area)

	for i, line := range lines {
		if i >= area.Height {
			break
		}
		renderSpans(screen, area.X, area.Y+i, area.Width, line.Spans)
	}
}

// RenderTypingLine paints the pending-response animation on the last
// row of the message area.
func RenderTypingLine(screen tcell.Screen, indicator TypingIndicator, area Rect) {
	if !indicator.Visible || area.Width <= 0 || area.Height <= 0 {
		return
	}

	y := area.Y + area.Height - 1
	for x := area.X; x < area.X+area.Width; x++ {
		screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
	}
	renderText(screen, area.X, y, indicator.Text(), StyleSpinner)
}

// RenderInput draws the bordered composer with a block cursor.
func RenderInput(screen tcell.Screen, input InputField, area Rect) {
	if area.Width <= 0 || area.Height <= 0 {
		return
	}

	clearArea(screen, area)

	if area.Height >= 3 {
		drawBorder(screen, NewRect(area.X, area.Y, area.Width, 3), StyleBorder)
	}

	if area.Height < 2 || area.Width < 3 {
		return
	}

	inputX := area.X + 1
	inputY := area.Y + 1
	inputWidth := area.Width - 2

	visible, cursorCol := input.VisibleSpan(inputWidth)
	renderText(screen, inputX, inputY, visible, tcell.StyleDefault)

	if cursorCol >= 0 && cursorCol < inputWidth {
		cursorStyle := tcell.StyleDefault.Reverse(true)
		runes := []rune(visible)
		ch := ' '
		if cursorCol < len(runes) {
			ch = runes[cursorCol]
		}
		screen.SetContent(inputX+cursorCol, inputY, ch, nil, cursorStyle)
	}
}

// RenderAlert paints a transient error on the alert row.
func RenderAlert(screen tcell.Screen, text string, area Rect) {
	if area.Width <= 0 || area.Height <= 0 {
		return
	}

	clearArea(screen, area)
	if text == "" {
		return
	}
	renderTextWithLimit(screen, area.X+1, area.Y, area.Width-2, text, StyleAlertText)
}

// RenderStatus draws the status bar: endpoint and stream state on the
// left, key bindings on the right.
func RenderStatus(screen tcell.Screen, status StatusBar, area Rect) {
	if area.Width <= 0 || area.Height <= 0 {
		return
	}

	for x := area.X; x < area.X+area.Width; x++ {
		screen.SetContent(x, area.Y, ' ', nil, StyleStatusBar)
	}

	left := fmt.Sprintf(" %s · %d messages · %s", status.Endpoint, status.Messages, status.state())
	renderTextWithLimit(screen, area.X, area.Y, area.Width, left, StyleStatusBar)

	keys := "enter send · tab thinking · ^x stop · ^l clear · ^c quit "
	keysX := area.X + area.Width - len([]rune(keys))
	if keysX > area.X+len([]rune(left))+2 {
		renderText(screen, keysX, area.Y, keys, StyleStatusBar)
	}
}

func clearArea(screen tcell.Screen, area Rect) {
	for y := area.Y; y < area.Y+area.Height; y++ {
		for x := area.X; x < area.X+area.Width; x++ {
			screen.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
}

func renderText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		screen.SetContent(col, y, r, nil, style)
		col++
	}
}

func renderTextWithLimit(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		if i >= maxWidth {
			break
		}
		screen.SetContent(x+i, y, r, nil, style)
	}
}

func renderSpans(screen tcell.Screen, x, y, maxWidth int, spans []Span) {
	col := 0
	for _, span := range spans {
		for _, r := range span.Text {
			if col >= maxWidth {
				return
			}
			screen.SetContent(x+col, y, r, nil, span.Style)
			col++
		}
	}
}

func drawBorder(screen tcell.Screen, area Rect, style tcell.Style) {
	for x := area.X; x < area.X+area.Width; x++ {
		screen.SetContent(x, area.Y, '─', nil, style)
		screen.SetContent(x, area.Y+area.Height-1, '─', nil, style)
	}

	for y := area.Y; y < area.Y+area.Height; y++ {
		screen.SetContent(area.X, y, '│', nil, style)
		screen.SetContent(area.X+area.Width-1, y, '│', nil, style)
	}

	screen.SetContent(area.X, area.Y, '┌', nil, style)
	screen.SetContent(area.X+area.Width-1, area.Y, '┐', nil, style)
	screen.SetContent(area.X, area.Y+area.Height-1, '└', nil, style)
	screen.SetContent(area.X+area.Width-1, area.Y+area.Height-1, '┘', nil, style)
}
