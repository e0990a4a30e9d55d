package tui

// InputField is the single-line composer under the transcript. The
// cursor is a rune index, so multibyte input edits cleanly.
type InputField struct {
	Content string
	Cursor  int
}

func NewInputField() InputField {
	return InputField{
		Content: "",
		Cursor:  0,
	}
}

func (inf InputField) WithContent(content string) InputField {
	cursor := inf.Cursor
	if n := len([]rune(content)); cursor > n {
		cursor = n
	}
	return InputField{
		Content: content,
		Cursor:  cursor,
	}
}

func (inf InputField) WithCursor(cursor int) InputField {
	if cursor < 0 {
		cursor = 0
	}
	if n := len([]rune(inf.Content)); cursor > n {
		cursor = n
	}
	return InputField{
		Content: inf.Content,
		Cursor:  cursor,
	}
}

func (inf InputField) InsertRune(r rune) InputField {
	runes := []rune(inf.Content)
	out := make([]rune, 0, len(runes)+1)
	out = append(out, runes[:inf.Cursor]...)
	out = append(out, r)
	out = append(out, runes[inf.Cursor:]...)

	return InputField{
		Content: string(out),
		Cursor:  inf.Cursor + 1,
	}
}

func (inf InputField) DeleteBackward() InputField {
	if inf.Cursor == 0 {
		return inf
	}

	runes := []rune(inf.Content)
	out := append([]rune{}, runes[:inf.Cursor-1]...)
	out = append(out, runes[inf.Cursor:]...)

	return InputField{
		Content: string(out),
		Cursor:  inf.Cursor - 1,
	}
}

func (inf InputField) DeleteForward() InputField {
	runes := []rune(inf.Content)
	if inf.Cursor >= len(runes) {
		return inf
	}

	out := append([]rune{}, runes[:inf.Cursor]...)
	out = append(out, runes[inf.Cursor+1:]...)

	return InputField{
		Content: string(out),
		Cursor:  inf.Cursor,
	}
}

func (inf InputField) CursorLeft() InputField {
	return inf.WithCursor(inf.Cursor - 1)
}

func (inf InputField) CursorRight() InputField {
	return inf.WithCursor(inf.Cursor + 1)
}

func (inf InputField) CursorHome() InputField {
	return inf.WithCursor(0)
}

func (inf InputField) CursorEnd() InputField {
	return inf.WithCursor(len([]rune(inf.Content)))
}

func (inf InputField) Clear() InputField {
	return InputField{
		Content: "",
		Cursor:  0,
	}
}

// VisibleSpan returns the slice of content that fits in width along
// with the cursor's column inside that slice. Content longer than the
// field scrolls so the cursor stays in view.
func (inf InputField) VisibleSpan(width int) (string, int) {
	if width <= 0 {
		return "", 0
	}

	runes := []rune(inf.Content)
	cursor := inf.Cursor
	if cursor > len(runes) {
		cursor = len(runes)
	}

	start := 0
	if cursor >= width {
		start = cursor - width + 1
	}
	end := start + width
	if end > len(runes) {
		end = len(runes)
	}

	return string(runes[start:end]), cursor - start
}
