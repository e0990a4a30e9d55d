package tui_test

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"parley/pkg/tui"
)

// newSimScreen returns an initialized in-memory screen.
func newSimScreen(width, height int) tcell.SimulationScreen {
	screen := tcell.NewSimulationScreen("UTF-8")
	Expect(screen.Init()).To(Succeed())
	screen.SetSize(width, height)
	return screen
}

// captureText flattens the screen into one string, rows joined by
// newlines.
func captureText(screen tcell.SimulationScreen) string {
	width, height := screen.Size()
	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ch, _, _, _ := screen.GetContent(x, y)
			if ch == 0 {
				ch = ' '
			}
			b.WriteRune(ch)
		}
		b.WriteRune('\n')
	}
	return b.String()
}

func rowText(screen tcell.SimulationScreen, y int) string {
	width, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < width; x++ {
		ch, _, _, _ := screen.GetContent(x, y)
		if ch == 0 {
			ch = ' '
		}
		b.WriteRune(ch)
	}
	return b.String()
}

var _ = Describe("Render", func() {
	Describe("RenderLines", func() {
		It("should paint spans row by row", func() {
			screen := newSimScreen(40, 10)
			defer screen.Fini()

			lines := []tui.Line{
				{Spans: []tui.Span{{Text: "first", Style: tui.StyleUserText}}},
				{Spans: []tui.Span{
					{Text: "sec", Style: tui.StyleAssistantText},
					{Text: "ond", Style: tui.StyleDimText},
				}},
			}

			tui.RenderLines(screen, lines, tui.NewRect(2, 1, 30, 5))
			screen.Show()

			Expect(rowText(screen, 1)).To(HavePrefix("  first"))
			Expect(rowText(screen, 2)).To(HavePrefix("  second"))
		})

		It("should truncate spans at the area edge", func() {
			screen := newSimScreen(20, 5)
			defer screen.Fini()

			lines := []tui.Line{
				{Spans: []tui.Span{{Text: "0123456789", Style: tui.StyleUserText}}},
			}

			tui.RenderLines(screen, lines, tui.NewRect(0, 0, 4, 1))
			screen.Show()

			Expect(rowText(screen, 0)).To(Equal("0123" + strings.Repeat(" ", 16)))
		})
	})

	Describe("RenderInput", func() {
		It("should draw the border and content with a cursor", func() {
			screen := newSimScreen(20, 5)
			defer screen.Fini()

			input := tui.NewInputField().WithContent("hello").CursorEnd()
			tui.RenderInput(screen, input, tui.NewRect(0, 0, 20, 3))
			screen.Show()

			Expect(rowText(screen, 0)).To(HavePrefix("┌"))
			Expect(rowText(screen, 1)).To(HavePrefix("│hello"))
			Expect(rowText(screen, 2)).To(HavePrefix("└"))

			// Cursor cell renders reversed.
			_, _, style, _ := screen.GetContent(6, 1)
			_, _, attrs := style.Decompose()
			Expect(attrs & tcell.AttrReverse).ToNot(BeZero())
		})
	})

	Describe("RenderTypingLine", func() {
		It("should paint the indicator on the bottom row", func() {
			screen := newSimScreen(20, 5)
			defer screen.Fini()

			indicator := tui.NewTypingIndicator("dots").WithVisible(true).Advance()
			tui.RenderTypingLine(screen, indicator, tui.NewRect(0, 0, 20, 3))
			screen.Show()

			Expect(rowText(screen, 2)).To(HavePrefix("··"))
		})

		It("should paint nothing while hidden", func() {
			screen := newSimScreen(20, 5)
			defer screen.Fini()

			tui.RenderTypingLine(screen, tui.NewTypingIndicator("dots"), tui.NewRect(0, 0, 20, 3))
			screen.Show()

			Expect(strings.TrimSpace(captureText(screen))).To(Equal(""))
		})
	})

	Describe("RenderAlert", func() {
		It("should show the alert text", func() {
			screen := newSimScreen(30, 3)
			defer screen.Fini()

			tui.RenderAlert(screen, "connection refused", tui.NewRect(0, 0, 30, 1))
			screen.Show()

			Expect(rowText(screen, 0)).To(ContainSubstring("connection refused"))
		})
	})

	Describe("RenderStatus", func() {
		It("should show the endpoint, count, and state", func() {
			screen := newSimScreen(140, 3)
			defer screen.Fini()

			tui.RenderStatus(screen, tui.StatusBar{
				Endpoint:  "http://localhost:8787/api/sse/chat",
				Messages:  3,
				Streaming: true,
			}, tui.NewRect(0, 0, 140, 1))
			screen.Show()

			row := rowText(screen, 0)
			Expect(row).To(ContainSubstring("http://localhost:8787/api/sse/chat"))
			Expect(row).To(ContainSubstring("3 messages"))
			Expect(row).To(ContainSubstring("streaming"))
			Expect(row).To(ContainSubstring("^c quit"))
		})

		It("should prefer the left side when space is tight", func() {
			screen := newSimScreen(30, 3)
			defer screen.Fini()

			tui.RenderStatus(screen, tui.StatusBar{
				Endpoint: "http://localhost:8787/api/sse/chat",
				Messages: 0,
			}, tui.NewRect(0, 0, 30, 1))
			screen.Show()

			row := rowText(screen, 0)
			Expect(row).To(ContainSubstring("http://localhost"))
			Expect(row).ToNot(ContainSubstring("quit"))
		})
	})
})
