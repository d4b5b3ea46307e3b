// Package session tracks the currently active session and enriches
// packets with its ID, mirroring the ingestion service's set_session /
// stop_session / session-scoped enrichment.
package session

import (
	"context"
	"sync"

	"telemetryd/internal/decoder"
)

// Store persists a new session row and returns its generated ID.
type Store interface {
	CreateSession(ctx context.Context, carID int64, trackID string, tuningConfigID *int64) (int64, error)
}

// Registry holds the current session ID behind a lock, shared between the
// control API (writer) and the consumer loop (reader, via Enrich).
type Registry struct {
	store Store

	mu  sync.RWMutex
	cur *int64
}

// New returns an empty Registry with no active session.
func New(store Store) *Registry {
	return &Registry{store: store}
}

// Start creates a new session row and makes it the active session.
func (r *Registry) Start(ctx context.Context, carID int64, trackID string, tuningConfigID *int64) error {
	id, err := r.store.CreateSession(ctx, carID, trackID, tuningConfigID)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.cur = &id
	r.mu.Unlock()
	return nil
}

// Stop clears the active session; subsequent packets are enriched with a
// nil SessionID until Start is called again.
func (r *Registry) Stop() {
	r.mu.Lock()
	r.cur = nil
	r.mu.Unlock()
}

// Current returns the active session ID, or nil if none is active.
func (r *Registry) Current() *int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cur
}

// Enrich returns a copy of p with its SessionID set to the current session,
// without mutating p.
func (r *Registry) Enrich(p decoder.Packet) decoder.Packet {
	id := r.Current()
	if id == nil {
		return p
	}
	return p.WithSessionID(*id)
}
