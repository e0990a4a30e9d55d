package server

import (
	"context"
	"sync"
	"time"
)

// StreamStatus describes one active stream for the status endpoint.
type StreamStatus struct {
	Active        bool          `json:"active"`
	Duration      time.Duration `json:"duration,omitempty"`
	ContentLength int           `json:"content_length,omitempty"`
}

type activeStream struct {
	prompt     string
	started    time.Time
	cancel     context.CancelFunc
	contentLen int
}

// Registry tracks in-flight generations so they can be inspected and
// stopped out of band.
type Registry struct {
	mu      sync.Mutex
	streams map[string]*activeStream
}

func NewRegistry() *Registry {
	return &Registry{
		streams: make(map[string]*activeStream),
	}
}

// Register records a stream. cancel aborts its generation.
func (r *Registry) Register(messageID, prompt string, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.streams[messageID] = &activeStream{
		prompt:  prompt,
		started: time.Now(),
		cancel:  cancel,
	}
}

// AddContent accounts generated bytes for the status endpoint.
func (r *Registry) AddContent(messageID string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.streams[messageID]; ok {
		s.contentLen += n
	}
}

// Status reports whether a stream is active and how far along it is.
func (r *Registry) Status(messageID string) StreamStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.streams[messageID]
	if !ok {
		return StreamStatus{Active: false}
	}
	return StreamStatus{
		Active:        true,
		Duration:      time.Since(s.started),
		ContentLength: s.contentLen,
	}
}

// Stop cancels an active stream. Reports whether one was found.
func (r *Registry) Stop(messageID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.streams[messageID]
	if !ok {
		return false
	}
	s.cancel()
	delete(r.streams, messageID)
	return true
}

// Remove drops a finished stream.
func (r *Registry) Remove(messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.streams, messageID)
}

// Len reports the number of active streams.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.streams)
}
