// Package streaming is the SSE transport layer: EventSource consumes
// a server's event stream on the client side, Writer emits frames on
// the server side.
package streaming

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"parley/pkg/chat"
	"parley/pkg/logger"
)

var sourceLog = logger.WithComponent("event_source")

// EventSource opens the chat SSE endpoint and decodes its frames into
// stream events. One connection at a time: opening a new stream
// closes the previous one, mirroring the single in-flight response
// the widget drives.
type EventSource struct {
	endpoint string
	client   *http.Client

	mu     sync.Mutex
	cancel context.CancelFunc
	body   io.ReadCloser
	err    error
}

// NewEventSource targets endpoint, typically
// http://host:port/api/sse/chat. The client carries no timeout since
// the stream stays open for the whole response.
func NewEventSource(endpoint string) *EventSource {
	return &EventSource{
		endpoint: endpoint,
		client:   &http.Client{},
	}
}

// Open requests a streamed response for prompt under messageID and
// returns the event channel. The channel closes when the server ends
// the stream, the context is cancelled, or the connection drops;
// after a drop, Err reports the transport failure. Callers that still
// hold live sessions when the channel closes treat it as transport
// loss.
func (es *EventSource) Open(ctx context.Context, prompt, messageID string) (<-chan chat.StreamEvent, error) {
	es.Close()

	ctx, cancel := context.WithCancel(ctx)

	u, err := url.Parse(es.endpoint)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	q := u.Query()
	q.Set("prompt", prompt)
	q.Set("message_id", messageID)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := es.client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("opening event stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("event stream returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(errBody)))
	}

	es.mu.Lock()
	es.cancel = cancel
	es.body = resp.Body
	es.err = nil
	es.mu.Unlock()

	events := make(chan chat.StreamEvent, 100)
	go es.readLoop(ctx, resp.Body, events)

	return events, nil
}

// readLoop scans SSE frames off the wire. Comment lines are
// keep-alives; a malformed data payload drops that one event only.
func (es *EventSource) readLoop(ctx context.Context, body io.ReadCloser, events chan<- chat.StreamEvent) {
	defer close(events)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}

		ev, err := chat.ParseStreamEvent([]byte(strings.TrimSpace(data)))
		if err != nil {
			sourceLog.Warn("Dropping malformed event", "error", err)
			continue
		}
		events <- ev
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		es.mu.Lock()
		es.err = fmt.Errorf("reading event stream: %w", err)
		es.mu.Unlock()
		sourceLog.Error("Event stream connection lost", "error", err)
	}
}

// Err reports the transport failure from the last stream, if any.
func (es *EventSource) Err() error {
	es.mu.Lock()
	defer es.mu.Unlock()
	return es.err
}

// Close releases the current connection. Safe to call repeatedly.
func (es *EventSource) Close() {
	es.mu.Lock()
	defer es.mu.Unlock()
	if es.cancel != nil {
		es.cancel()
		es.cancel = nil
	}
	if es.body != nil {
		es.body.Close()
		es.body = nil
	}
}
