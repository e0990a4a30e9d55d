package tui

import "strings"

type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

func NewRect(x, y, width, height int) Rect {
	return Rect{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
	}
}

func (r Rect) Right() int {
	return r.X + r.Width
}

func (r Rect) Bottom() int {
	return r.Y + r.Height
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

type Layout struct {
	ScreenWidth  int
	ScreenHeight int
}

func NewLayout(width, height int) Layout {
	return Layout{
		ScreenWidth:  width,
		ScreenHeight: height,
	}
}

// CalculateAreas splits the screen into the four widget regions:
// the transcript on top, a one-line alert row for transient errors,
// the bordered input box, and the status bar at the bottom.
func (l Layout) CalculateAreas() (messageArea, alertArea, inputArea, statusArea Rect) {
	statusHeight := 1
	inputHeight := 3
	alertHeight := 1
	messageHeight := l.ScreenHeight - statusHeight - inputHeight - alertHeight

	if messageHeight < 1 {
		messageHeight = 1
	}

	padding := 2
	availableWidth := l.ScreenWidth - (2 * padding)
	if availableWidth < 1 {
		availableWidth = l.ScreenWidth
		padding = 0
	}

	messageArea = NewRect(padding, 0, availableWidth, messageHeight)
	alertArea = NewRect(0, messageHeight, l.ScreenWidth, alertHeight)
	inputArea = NewRect(0, messageHeight+alertHeight, l.ScreenWidth, inputHeight)
	statusArea = NewRect(0, messageHeight+alertHeight+inputHeight, l.ScreenWidth, statusHeight)

	return messageArea, alertArea, inputArea, statusArea
}

// WrapText word-wraps text to the given width. Newlines in the input
// force a break, so multi-paragraph content keeps its shape.
func WrapText(text string, width int) []string {
	if width <= 0 || text == "" {
		return []string{}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		lines = append(lines, wrapParagraph(paragraph, width)...)
	}
	return lines
}

func wrapParagraph(text string, width int) []string {
	runes := []rune(text)
	if len(runes) <= width {
		return []string{text}
	}

	var lines []string
	for len(runes) > 0 {
		if len(runes) <= width {
			lines = append(lines, string(runes))
			break
		}

		breakPos := 0
		for i := width; i >= 0; i-- {
			if runes[i] == ' ' {
				breakPos = i
				break
			}
		}
		if breakPos == 0 {
			breakPos = width
		}

		lines = append(lines, string(runes[:breakPos]))
		runes = runes[breakPos:]
		for len(runes) > 0 && runes[0] == ' ' {
			runes = runes[1:]
		}
	}

	return lines
}

// LineWindow selects the visible slice of a transcript. Scroll counts
// lines up from the tail, so zero keeps the view pinned to the newest
// output while a stream appends. Returns the window and the index of
// its first line.
func LineWindow(lines []Line, height, scroll int) ([]Line, int) {
	if height <= 0 || len(lines) == 0 {
		return nil, 0
	}

	maxScroll := len(lines) - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scroll > maxScroll {
		scroll = maxScroll
	}
	if scroll < 0 {
		scroll = 0
	}

	top := maxScroll - scroll
	end := top + height
	if end > len(lines) {
		end = len(lines)
	}

	return lines[top:end], top
}
