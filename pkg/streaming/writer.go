package streaming

import (
	"fmt"
	"net/http"

	"parley/pkg/chat"
)

// Writer encodes stream events as SSE frames, flushing after every
// write so chunks reach the client as they are produced.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter prepares w for event streaming and sets the SSE headers.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")

	return &Writer{w: w, flusher: flusher}, nil
}

// Send writes one data frame.
func (sw *Writer) Send(ev chat.StreamEvent) error {
	data, err := ev.Encode()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("writing event frame: %w", err)
	}
	sw.flusher.Flush()
	return nil
}

// KeepAlive writes a comment frame clients skip, holding idle
// connections open through proxies.
func (sw *Writer) KeepAlive() error {
	if _, err := fmt.Fprint(sw.w, ": keep-alive\n\n"); err != nil {
		return fmt.Errorf("writing keep-alive frame: %w", err)
	}
	sw.flusher.Flush()
	return nil
}
