package tui

var (
	dotsFrames    = []string{"·", "··", "···"}
	spinnerFrames = []string{"░", "▒", "▓", "█"}
)

// TypingIndicator is the pending-response animation shown between
// submitting a message and the first streamed token. Mode selects the
// web widget's two animations: "dots" or "spinner".
type TypingIndicator struct {
	Mode    string
	Visible bool
	Frame   int
}

func NewTypingIndicator(mode string) TypingIndicator {
	if mode != "spinner" {
		mode = "dots"
	}
	return TypingIndicator{
		Mode:    mode,
		Visible: false,
		Frame:   0,
	}
}

func (ti TypingIndicator) WithVisible(visible bool) TypingIndicator {
	indicator := TypingIndicator{
		Mode:    ti.Mode,
		Visible: visible,
		Frame:   ti.Frame,
	}

	// Restart the animation each time the indicator reappears.
	if visible && !ti.Visible {
		indicator.Frame = 0
	}

	return indicator
}

func (ti TypingIndicator) Advance() TypingIndicator {
	if !ti.Visible {
		return ti
	}

	return TypingIndicator{
		Mode:    ti.Mode,
		Visible: ti.Visible,
		Frame:   (ti.Frame + 1) % len(ti.frames()),
	}
}

func (ti TypingIndicator) Text() string {
	if !ti.Visible {
		return ""
	}

	frames := ti.frames()
	return frames[ti.Frame%len(frames)]
}

func (ti TypingIndicator) frames() []string {
	if ti.Mode == "spinner" {
		return spinnerFrames
	}
	return dotsFrames
}
