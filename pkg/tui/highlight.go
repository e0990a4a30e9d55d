package tui

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
)

// Segment is one slab of message content: prose, or a fenced code
// block with its language tag.
type Segment struct {
	Code     bool
	Language string
	Text     string
}

// SplitCodeFences cuts message content on ``` fences. An unterminated
// fence runs to the end of the content, which is the normal state
// while a code block is still streaming in.
func SplitCodeFences(content string) []Segment {
	var segments []Segment
	var buf []string
	inCode := false
	language := ""

	flush := func() {
		text := strings.Join(buf, "\n")
		if inCode || text != "" {
			segments = append(segments, Segment{
				Code:     inCode,
				Language: language,
				Text:     text,
			})
		}
		buf = nil
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			flush()
			if !inCode {
				language = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			} else {
				language = ""
			}
			inCode = !inCode
			continue
		}
		buf = append(buf, line)
	}

	if len(buf) > 0 {
		flush()
	}

	return segments
}

// HighlightLines tokenizes code and maps token types onto tcell
// styles, one span list per source line. Falls back to unstyled lines
// when the lexer cannot handle the content.
func HighlightLines(code, language string) [][]Span {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plainCodeLines(code)
	}

	lines := [][]Span{{}}
	for token := iterator(); token != chroma.EOF; token = iterator() {
		tokenStyle := styleForToken(style, token.Type)
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, []Span{})
			}
			if part == "" {
				continue
			}
			last := len(lines) - 1
			lines[last] = append(lines[last], Span{Text: part, Style: tokenStyle})
		}
	}

	// Tokenise appends a trailing newline, leave that empty line out.
	if len(lines) > 1 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}

	return lines
}

func plainCodeLines(code string) [][]Span {
	var lines [][]Span
	for _, line := range strings.Split(code, "\n") {
		lines = append(lines, []Span{{Text: line, Style: StyleCodeText}})
	}
	return lines
}

func styleForToken(style *chroma.Style, tokenType chroma.TokenType) tcell.Style {
	entry := style.Get(tokenType)
	out := StyleCodeText

	if entry.Colour.IsSet() {
		out = out.Foreground(tcell.NewRGBColor(
			int32(entry.Colour.Red()),
			int32(entry.Colour.Green()),
			int32(entry.Colour.Blue()),
		))
	}
	if entry.Bold == chroma.Yes {
		out = out.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		out = out.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		out = out.Underline(true)
	}

	return out
}
