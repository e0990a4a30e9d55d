package chat

import (
	"context"
	"strconv"
	"sync"
	"time"

	"parley/pkg/logger"
	"parley/pkg/store"
)

var disclosureLog = logger.WithComponent("disclosure")

// stateKeyPrefix namespaces persisted disclosure toggles in the KV.
const stateKeyPrefix = "thinking-state-"

// DisclosureTracker holds the expanded/collapsed state of every
// thinking span. While a span's session is streaming the state is
// forced open; once complete, the persisted toggle takes over
// (default collapsed on first load). A nil store keeps toggles in
// process memory only.
type DisclosureTracker struct {
	mu            sync.Mutex
	states        map[string]bool
	completed     map[string]bool
	timers        map[string]*time.Timer
	kv            store.KV
	autoCollapse  bool
	collapseDelay time.Duration
	onChange      func(spanID string)
	closed        bool
}

// NewDisclosureTracker creates a tracker persisting through kv.
// collapseDelay only matters when autoCollapse is on.
func NewDisclosureTracker(kv store.KV, autoCollapse bool, collapseDelay time.Duration) *DisclosureTracker {
	return &DisclosureTracker{
		states:        make(map[string]bool),
		completed:     make(map[string]bool),
		timers:        make(map[string]*time.Timer),
		kv:            kv,
		autoCollapse:  autoCollapse,
		collapseDelay: collapseDelay,
	}
}

// SetOnChange registers a callback fired when a deferred collapse
// lands, so the renderer can redraw.
func (dt *DisclosureTracker) SetOnChange(fn func(spanID string)) {
	dt.mu.Lock()
	defer dt.mu.Unlock()
	dt.onChange = fn
}

// Expanded returns the span's current state, loading the persisted
// value on first encounter.
func (dt *DisclosureTracker) Expanded(spanID string) bool {
	dt.mu.Lock()
	defer dt.mu.Unlock()
	return dt.expandedLocked(spanID)
}

// Forced reports whether the span's state is overridden open. Called
// on every render update so spans appearing mid-stream auto-open; the
// open state becomes the in-memory baseline the completion policy
// works from.
func (dt *DisclosureTracker) Forced(spanID string, sessionStreaming bool) bool {
	if !sessionStreaming {
		return false
	}
	dt.mu.Lock()
	defer dt.mu.Unlock()
	dt.states[spanID] = true
	return true
}

// Toggle flips the span's state, persists it, and returns the new
// value. Has no effect on spans currently forced open; callers gate
// on Forced first.
func (dt *DisclosureTracker) Toggle(spanID string) bool {
	dt.mu.Lock()
	defer dt.mu.Unlock()
	v := !dt.expandedLocked(spanID)
	dt.states[spanID] = v
	dt.persist(spanID, v)
	return v
}

// SpanCompleted marks the streaming-to-complete transition for a
// span. Runs its policy exactly once: when auto-collapse is enabled
// and the span is still expanded, a collapse is scheduled after the
// configured delay. The timer is skipped if the user collapses the
// span first and cancelled by Close.
func (dt *DisclosureTracker) SpanCompleted(spanID string) {
	dt.mu.Lock()
	defer dt.mu.Unlock()

	if dt.completed[spanID] || dt.closed {
		return
	}
	dt.completed[spanID] = true

	if !dt.autoCollapse || !dt.expandedLocked(spanID) {
		return
	}

	dt.timers[spanID] = time.AfterFunc(dt.collapseDelay, func() {
		dt.collapse(spanID)
	})
}

// Close cancels every pending collapse timer. Called on component
// teardown.
func (dt *DisclosureTracker) Close() {
	dt.mu.Lock()
	defer dt.mu.Unlock()
	dt.closed = true
	for id, timer := range dt.timers {
		timer.Stop()
		delete(dt.timers, id)
	}
}

func (dt *DisclosureTracker) collapse(spanID string) {
	dt.mu.Lock()
	delete(dt.timers, spanID)
	if dt.closed || !dt.expandedLocked(spanID) {
		dt.mu.Unlock()
		return
	}
	dt.states[spanID] = false
	dt.persist(spanID, false)
	cb := dt.onChange
	dt.mu.Unlock()

	if cb != nil {
		cb(spanID)
	}
}

func (dt *DisclosureTracker) expandedLocked(spanID string) bool {
	if v, ok := dt.states[spanID]; ok {
		return v
	}
	v := dt.loadPersisted(spanID)
	dt.states[spanID] = v
	return v
}

func (dt *DisclosureTracker) loadPersisted(spanID string) bool {
	if dt.kv == nil {
		return false
	}
	raw, found, err := dt.kv.Get(context.Background(), stateKeyPrefix+spanID)
	if err != nil {
		disclosureLog.Warn("Loading disclosure state failed", "span_id", spanID, "error", err)
		return false
	}
	if !found {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return v
}

func (dt *DisclosureTracker) persist(spanID string, v bool) {
	if dt.kv == nil {
		return
	}
	if err := dt.kv.Set(context.Background(), stateKeyPrefix+spanID, strconv.FormatBool(v)); err != nil {
		disclosureLog.Warn("Persisting disclosure state failed", "span_id", spanID, "error", err)
	}
}
