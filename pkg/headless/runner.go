// Package headless sends one prompt over the stream protocol without
// the terminal UI, writing the reply to an io.Writer as it arrives.
// It drives the same dispatcher pipeline as the widget, so finalized
// turns land in the shared history.
package headless

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"parley/pkg/chat"
	"parley/pkg/logger"
	"parley/pkg/store"
	"parley/pkg/streaming"
)

var headlessLog = logger.WithComponent("headless")

// Options configure a one-shot run.
type Options struct {
	// Endpoint is the chat stream URL.
	Endpoint string

	// ShowThinking streams thinking content dimmed ahead of the reply.
	ShowThinking bool

	// Store persists the exchange. Nil keeps it in memory only.
	Store store.KV

	// Out receives the streamed reply. Nil means stdout.
	Out io.Writer
}

// Run sends prompt and blocks until the stream finalizes. The reply is
// written to opts.Out chunk by chunk. A server-signaled failure or a
// connection drop comes back as an error; the user turn and any
// finalized reply are already persisted by then.
func Run(ctx context.Context, opts Options, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	history, err := chat.NewHistory(ctx, opts.Store)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	sessions := chat.NewSessionTracker()
	printer := newPrinter(out, opts.ShowThinking)
	dispatcher := chat.NewDispatcher(sessions, history, printer)

	if err := history.Add(chat.NewUserMessage(prompt)); err != nil {
		return fmt.Errorf("recording prompt: %w", err)
	}

	source := streaming.NewEventSource(opts.Endpoint)
	defer source.Close()

	messageID := uuid.NewString()
	headlessLog.Info("Opening one-shot stream", "message_id", messageID, "prompt_len", len(prompt))

	events, err := source.Open(ctx, prompt, messageID)
	if err != nil {
		return fmt.Errorf("opening stream: %w", err)
	}

	for ev := range events {
		dispatcher.Dispatch(ev)
		if ev.Type == chat.EventContent {
			if view, ok := sessions.Get(ev.MessageID); ok {
				printer.Update(view)
			}
		}
	}

	if dispatcher.IsStreaming() {
		dispatcher.FailAll()
		if err := source.Err(); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("stream closed before completing")
	}

	if msg := printer.Failed(); msg != "" {
		return fmt.Errorf("server reported: %s", msg)
	}
	return nil
}
