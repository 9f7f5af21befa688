// Package session holds the authenticated identity of a caller as an immutable
// value and fans out session changes to subscribers.
package session

import (
	"sync"
	"time"

	"modernblog/internal/models"
)

// Context is the session of one caller. The zero value is anonymous.
type Context struct {
	identity *models.Identity
}

// Anonymous returns a session without identity.
func Anonymous() Context {
	return Context{}
}

// WithIdentity returns a session for the given identity.
func WithIdentity(id models.Identity) Context {
	return Context{identity: &id}
}

// Identity returns a copy of the identity and whether one is present.
func (c Context) Identity() (models.Identity, bool) {
	if c.identity == nil {
		return models.Identity{}, false
	}
	return *c.identity, true
}

// Authenticated reports whether the session carries an identity.
func (c Context) Authenticated() bool {
	return c.identity != nil
}

// UserID returns the identity id or an empty string.
func (c Context) UserID() string {
	if c.identity == nil {
		return ""
	}
	return c.identity.ID
}

// EventKind names a session change.
type EventKind string

const (
	SignedIn  EventKind = "signed_in"
	SignedOut EventKind = "signed_out"
)

// Event is delivered to subscribers on every session change. Session is the
// session that started (SignedIn) or ended (SignedOut).
type Event struct {
	Kind    EventKind
	Session Context
	At      time.Time
}

// Hub delivers session events to its subscribers in subscription order.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscriber
}

type subscriber struct {
	id uint64
	fn func(Event)
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers fn and returns a handle that removes it again.
// Calling the handle more than once is a no-op.
func (h *Hub) Subscribe(fn func(Event)) (unsubscribe func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscriber{id: id, fn: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, s := range h.subs {
				if s.id == id {
					h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish calls every subscriber synchronously.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	h.mu.RLock()
	subs := make([]subscriber, len(h.subs))
	copy(subs, h.subs)
	h.mu.RUnlock()

	for _, s := range subs {
		s.fn(ev)
	}
}
