package tui

import "github.com/gdamore/tcell/v2"

// Widget palette. Amber for the user, mint for the assistant, dim gray
// for reasoning content that should read as an aside.
var (
	ColorUserText      = tcell.NewRGBColor(255, 176, 0)
	ColorAssistantText = tcell.NewRGBColor(0, 255, 135)
	ColorSystemText    = tcell.NewRGBColor(255, 255, 128)
	ColorErrorText     = tcell.NewRGBColor(255, 99, 71)

	ColorThinkingText   = tcell.NewRGBColor(150, 150, 150)
	ColorThinkingHeader = tcell.NewRGBColor(135, 206, 235)
	ColorCodeText       = tcell.NewRGBColor(248, 248, 242)
	ColorCodeBackground = tcell.NewRGBColor(30, 30, 30)

	ColorBorder    = tcell.NewRGBColor(255, 215, 0)
	ColorDimText   = tcell.NewRGBColor(169, 169, 169)
	ColorHighlight = tcell.NewRGBColor(255, 255, 0)

	ColorStatusText       = tcell.NewRGBColor(192, 192, 192)
	ColorStatusBackground = tcell.NewRGBColor(40, 40, 40)
	ColorAlertText        = tcell.NewRGBColor(255, 99, 71)
)

// Style presets combining colors with text attributes.
var (
	StyleUserText      = tcell.StyleDefault.Foreground(ColorUserText)
	StyleAssistantText = tcell.StyleDefault.Foreground(ColorAssistantText)
	StyleSystemText    = tcell.StyleDefault.Foreground(ColorSystemText)
	StyleErrorText     = tcell.StyleDefault.Foreground(ColorErrorText)

	StyleThinkingText   = tcell.StyleDefault.Foreground(ColorThinkingText).Italic(true)
	StyleThinkingHeader = tcell.StyleDefault.Foreground(ColorThinkingHeader)
	StyleThinkingTarget = tcell.StyleDefault.Foreground(ColorHighlight).Bold(true)
	StyleCodeText       = tcell.StyleDefault.Foreground(ColorCodeText).Background(ColorCodeBackground)

	StyleBorder  = tcell.StyleDefault.Foreground(ColorBorder)
	StyleDimText = tcell.StyleDefault.Foreground(ColorDimText).Dim(true)

	StyleStatusBar = tcell.StyleDefault.Foreground(ColorStatusText).Background(ColorStatusBackground)
	StyleAlertText = tcell.StyleDefault.Foreground(ColorAlertText).Bold(true)
	StyleSpinner   = tcell.StyleDefault.Foreground(ColorDimText)
)

// ApplyTheme switches the palette. The light theme swaps the text
// colors that are unreadable on a white terminal background; styles
// derived from the palette are rebuilt in place.
func ApplyTheme(theme string) {
	if theme != "light" {
		return
	}

	ColorUserText = tcell.NewRGBColor(180, 95, 0)
	ColorAssistantText = tcell.NewRGBColor(0, 120, 60)
	ColorSystemText = tcell.NewRGBColor(120, 120, 0)
	ColorThinkingText = tcell.NewRGBColor(110, 110, 110)
	ColorThinkingHeader = tcell.NewRGBColor(30, 100, 160)
	ColorCodeText = tcell.NewRGBColor(40, 40, 40)
	ColorCodeBackground = tcell.NewRGBColor(235, 235, 235)
	ColorStatusText = tcell.NewRGBColor(60, 60, 60)
	ColorStatusBackground = tcell.NewRGBColor(220, 220, 220)
	ColorDimText = tcell.NewRGBColor(130, 130, 130)

	StyleUserText = tcell.StyleDefault.Foreground(ColorUserText)
	StyleAssistantText = tcell.StyleDefault.Foreground(ColorAssistantText)
	StyleSystemText = tcell.StyleDefault.Foreground(ColorSystemText)
	StyleThinkingText = tcell.StyleDefault.Foreground(ColorThinkingText).Italic(true)
	StyleThinkingHeader = tcell.StyleDefault.Foreground(ColorThinkingHeader)
	StyleCodeText = tcell.StyleDefault.Foreground(ColorCodeText).Background(ColorCodeBackground)
	StyleStatusBar = tcell.StyleDefault.Foreground(ColorStatusText).Background(ColorStatusBackground)
	StyleDimText = tcell.StyleDefault.Foreground(ColorDimText).Dim(true)
	StyleSpinner = tcell.StyleDefault.Foreground(ColorDimText)
}
