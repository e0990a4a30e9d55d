package chat

import (
	"strings"
	"sync"
	"time"
)

// StreamingSession is the transient state for one in-flight assistant
// message, keyed by message id. Three buffers grow independently: raw
// keeps every chunk verbatim, thinking and main split chunks by the
// current mode.
type StreamingSession struct {
	MessageID  string
	Role       string
	InThinking bool
	Streaming  bool
	StartTime  time.Time
	LastUpdate time.Time
	ChunkCount int

	raw      strings.Builder
	thinking strings.Builder
	main     strings.Builder
}

func newStreamingSession(messageID, role string) *StreamingSession {
	now := time.Now()
	if role == "" {
		role = RoleAssistant
	}
	return &StreamingSession{
		MessageID:  messageID,
		Role:       role,
		Streaming:  true,
		StartTime:  now,
		LastUpdate: now,
	}
}

// append routes one chunk: raw always, thinking or main per mode.
func (s *StreamingSession) append(chunk string) {
	s.raw.WriteString(chunk)
	if s.InThinking {
		s.thinking.WriteString(chunk)
	} else {
		s.main.WriteString(chunk)
	}
	s.ChunkCount++
	s.LastUpdate = time.Now()
}

func (s *StreamingSession) Raw() string      { return s.raw.String() }
func (s *StreamingSession) Thinking() string { return s.thinking.String() }
func (s *StreamingSession) Main() string     { return s.main.String() }

// SessionView is an immutable copy of a session handed to renderers.
type SessionView struct {
	MessageID  string
	Role       string
	Raw        string
	Thinking   string
	Main       string
	InThinking bool
	Streaming  bool
	StartTime  time.Time
	LastUpdate time.Time
	ChunkCount int
}

func (s *StreamingSession) view() SessionView {
	return SessionView{
		MessageID:  s.MessageID,
		Role:       s.Role,
		Raw:        s.raw.String(),
		Thinking:   s.thinking.String(),
		Main:       s.main.String(),
		InThinking: s.InThinking,
		Streaming:  s.Streaming,
		StartTime:  s.StartTime,
		LastUpdate: s.LastUpdate,
		ChunkCount: s.ChunkCount,
	}
}

// SessionTracker owns the live-session map. All mutation goes through
// its methods; renderers only ever see SessionView copies.
type SessionTracker struct {
	mu       sync.RWMutex
	sessions map[string]*StreamingSession
}

// NewSessionTracker creates an empty tracker.
func NewSessionTracker() *SessionTracker {
	return &SessionTracker{
		sessions: make(map[string]*StreamingSession),
	}
}

// Start creates the session for a stream_start event. A duplicate
// start for a live id resets its buffers.
func (t *SessionTracker) Start(messageID, role string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[messageID] = newStreamingSession(messageID, role)
}

// Append adds a content chunk, creating the session if the start
// event was never seen.
func (t *SessionTracker) Append(messageID, chunk string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[messageID]
	if !ok {
		s = newStreamingSession(messageID, RoleAssistant)
		t.sessions[messageID] = s
	}
	s.append(chunk)
}

// SetThinking flips the thinking mode. No-op when the session does
// not exist; reports whether it did.
func (t *SessionTracker) SetThinking(messageID string, in bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[messageID]
	if !ok {
		return false
	}
	s.InThinking = in
	return true
}

// Get returns a copy of the session state.
func (t *SessionTracker) Get(messageID string) (SessionView, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sessions[messageID]
	if !ok {
		return SessionView{}, false
	}
	return s.view(), true
}

// Take removes the session and returns its final state. Used by every
// finalization path so no entry is ever left dangling.
func (t *SessionTracker) Take(messageID string) (SessionView, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.sessions[messageID]
	if !ok {
		return SessionView{}, false
	}
	delete(t.sessions, messageID)
	s.Streaming = false
	return s.view(), true
}

// TakeAll removes every live session, in no particular order.
func (t *SessionTracker) TakeAll() []SessionView {
	t.mu.Lock()
	defer t.mu.Unlock()
	views := make([]SessionView, 0, len(t.sessions))
	for id, s := range t.sessions {
		delete(t.sessions, id)
		s.Streaming = false
		views = append(views, s.view())
	}
	return views
}

// Drop removes the session without finalizing.
func (t *SessionTracker) Drop(messageID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, messageID)
}

// ActiveIDs lists the ids of live sessions.
func (t *SessionTracker) ActiveIDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.sessions))
	for id := range t.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Len reports the number of live sessions.
func (t *SessionTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// Views returns copies of every live session for rendering.
func (t *SessionTracker) Views() []SessionView {
	t.mu.RLock()
	defer t.mu.RUnlock()
	views := make([]SessionView, 0, len(t.sessions))
	for _, s := range t.sessions {
		views = append(views, s.view())
	}
	return views
}
