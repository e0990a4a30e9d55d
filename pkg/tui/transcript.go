package tui

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"parley/pkg/chat"
)

// TranscriptFormatter pretty-prints stored conversations for plain
// terminal output, outside the interactive screen. Thinking spans get
// a boxed aside, code blocks get ANSI syntax highlighting.
type TranscriptFormatter struct {
	width           int
	chromaFormatter chroma.Formatter

	userStyle      lipgloss.Style
	assistantStyle lipgloss.Style
	errorStyle     lipgloss.Style
	thinkingBox    lipgloss.Style
	codeBox        lipgloss.Style
	timestampStyle lipgloss.Style
}

func NewTranscriptFormatter(width int) *TranscriptFormatter {
	if width <= 0 {
		width = 80
	}

	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	return &TranscriptFormatter{
		width:           width,
		chromaFormatter: formatter,

		userStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB000")),

		assistantStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF87")),

		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6347")),

		thinkingBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#555555")).
			Padding(0, 1).
			Foreground(lipgloss.Color("#888888")).
			Italic(true).
			Width(width - 4),

		codeBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#FFD700")).
			Padding(0, 1),

		timestampStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")),
	}
}

// FormatHistory renders a whole conversation.
func (tf *TranscriptFormatter) FormatHistory(messages []chat.Message) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(tf.FormatMessage(msg))
	}
	return b.String()
}

// FormatMessage renders one finalized message: role header, thinking
// asides, then the visible body.
func (tf *TranscriptFormatter) FormatMessage(msg chat.Message) string {
	var b strings.Builder

	header := fmt.Sprintf("%s %s",
		tf.roleStyle(msg.Role).Render(roleLabel(msg.Role)),
		tf.timestampStyle.Render(msg.Timestamp.Format("15:04:05")),
	)
	b.WriteString(header)
	b.WriteString("\n")

	body := msg.Content
	if msg.IsAssistant() {
		parsed := chat.ParseThinking(msg.Content).Finalized()
		for _, span := range parsed.Spans {
			b.WriteString(tf.thinkingBox.Render(span.Content))
			b.WriteString("\n")
		}
		body = parsed.Main
	}

	for _, segment := range SplitCodeFences(body) {
		if segment.Code {
			b.WriteString(tf.renderCode(segment.Text, segment.Language))
			b.WriteString("\n")
			continue
		}
		if segment.Text != "" {
			b.WriteString(segment.Text)
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (tf *TranscriptFormatter) roleStyle(role string) lipgloss.Style {
	switch role {
	case chat.RoleUser:
		return tf.userStyle
	case chat.RoleError:
		return tf.errorStyle
	default:
		return tf.assistantStyle
	}
}

func (tf *TranscriptFormatter) renderCode(code, language string) string {
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

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return tf.codeBox.Render(code)
	}

	var buf strings.Builder
	if err := tf.chromaFormatter.Format(&buf, style, iterator); err != nil {
		return tf.codeBox.Render(code)
	}

	return tf.codeBox.Render(strings.TrimRight(buf.String(), "\n"))
}
