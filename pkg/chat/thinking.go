package chat

import (
	"fmt"
	"strings"
)

// Marker pair delimiting reasoning traces inside message content.
// Exactly these literals; no escaping, no nesting.
const (
	OpenMarker  = "<think>"
	CloseMarker = "</think>"
)

// ThinkingSpan is one reasoning-trace segment extracted from a
// message. Spans are ordered by appearance; Ordinal is the position
// used to derive the stable disclosure id.
type ThinkingSpan struct {
	Ordinal  int
	Content  string
	Complete bool
}

// ParsedContent is the partition of a message body into thinking
// spans and the visible answer.
type ParsedContent struct {
	Spans []ThinkingSpan
	Main  string
}

// SpanID derives the stable identifier for a span, used as the
// disclosure persistence key suffix. Stable across re-renders because
// it depends only on the owning message id and span position.
func SpanID(messageID string, ordinal int) string {
	return fmt.Sprintf("%s-thinking-%d", messageID, ordinal)
}

// ParseThinking partitions content into ordered thinking spans and
// main content with a single left-to-right scan.
//
// An opening marker seen while a span is already open is literal span
// content, not a nested span. A closing marker completes the open
// span and starts main content. Text before the first opening marker
// is dropped when the buffer contains any marker; a buffer with no
// markers is pure main content. An unterminated span is emitted with
// Complete=false. Deterministic, so it can be re-run on every
// re-render of a historical message.
func ParseThinking(content string) ParsedContent {
	hasMarkers := strings.Contains(content, OpenMarker)

	var (
		spans       []ThinkingSpan
		span        strings.Builder
		main        strings.Builder
		inSpan      bool
		mainStarted bool
	)

	i := 0
	for i < len(content) {
		if !inSpan && strings.HasPrefix(content[i:], OpenMarker) {
			inSpan = true
			span.Reset()
			i += len(OpenMarker)
			continue
		}
		if inSpan && strings.HasPrefix(content[i:], CloseMarker) {
			spans = append(spans, ThinkingSpan{
				Ordinal:  len(spans),
				Content:  span.String(),
				Complete: true,
			})
			span.Reset()
			inSpan = false
			mainStarted = true
			i += len(CloseMarker)
			continue
		}

		switch {
		case inSpan:
			span.WriteByte(content[i])
		case mainStarted || !hasMarkers:
			main.WriteByte(content[i])
		}
		i++
	}

	if inSpan {
		spans = append(spans, ThinkingSpan{
			Ordinal:  len(spans),
			Content:  span.String(),
			Complete: false,
		})
	}

	return ParsedContent{
		Spans: spans,
		Main:  strings.TrimSpace(main.String()),
	}
}

// Finalized forces every span complete. Applied when the owning
// message finalizes while a span is still open: the accumulated
// content is kept, never discarded.
func (p ParsedContent) Finalized() ParsedContent {
	spans := make([]ThinkingSpan, len(p.Spans))
	copy(spans, p.Spans)
	for i := range spans {
		spans[i].Complete = true
	}
	return ParsedContent{Spans: spans, Main: p.Main}
}

// HasThinking reports whether any span was found.
func (p ParsedContent) HasThinking() bool {
	return len(p.Spans) > 0
}

// StripThinking returns only the visible answer portion of content.
func StripThinking(content string) string {
	return ParseThinking(content).Main
}
