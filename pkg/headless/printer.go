package headless

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"parley/pkg/chat"
)

// printer writes streamed reply text to out as sessions grow. It also
// serves as the dispatcher sink so terminal transitions reach the
// caller.
type printer struct {
	mu           sync.Mutex
	out          io.Writer
	showThinking bool
	thinkStyle   lipgloss.Style

	thinkingLen int
	mainLen     int
	separated   bool
	failed      string
}

func newPrinter(out io.Writer, showThinking bool) *printer {
	return &printer{
		out:          out,
		showThinking: showThinking,
		thinkStyle:   lipgloss.NewStyle().Faint(true).Italic(true),
	}
}

// Update prints whatever arrived since the last call. Thinking text
// streams dimmed before the reply; a blank line separates the two.
func (p *printer) Update(view chat.SessionView) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.showThinking && len(view.Thinking) > p.thinkingLen {
		fmt.Fprint(p.out, p.thinkStyle.Render(view.Thinking[p.thinkingLen:]))
		p.thinkingLen = len(view.Thinking)
	}

	if len(view.Main) > p.mainLen {
		if p.showThinking && p.thinkingLen > 0 && !p.separated {
			fmt.Fprint(p.out, "\n\n")
			p.separated = true
		}
		fmt.Fprint(p.out, view.Main[p.mainLen:])
		p.mainLen = len(view.Main)
	}
}

// Failed reports the server error text, if the stream ended with one.
func (p *printer) Failed() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

func (p *printer) StreamStarted(messageID string) {}

func (p *printer) StreamingComplete(messageID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out)
}

func (p *printer) StreamError(messageID, errMsg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed = errMsg
}
