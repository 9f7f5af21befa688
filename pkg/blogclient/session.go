package blogclient

import (
	"sync"

	"modernblog/internal/models"
)

// Snapshot is the client's view of the current session.
type Snapshot struct {
	Token    string
	Identity *models.Identity // nil when signed out
}

// SignedIn reports whether the snapshot carries an identity.
func (s Snapshot) SignedIn() bool {
	return s.Identity != nil && s.Token != ""
}

// IdentityLookup resolves a stored token to its identity; nil means anonymous.
type IdentityLookup interface {
	Session(token string) (*models.Identity, error)
}

// SessionStore owns the single current session of a client and notifies
// subscribers whenever it changes.
type SessionStore struct {
	mu      sync.RWMutex
	current Snapshot
	nextID  int
	subs    map[int]func(Snapshot)
	order   []int
}

// NewSessionStore creates a signed-out store.
func NewSessionStore() *SessionStore {
	return &SessionStore{subs: make(map[int]func(Snapshot))}
}

// Current returns the current snapshot.
func (s *SessionStore) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn for session changes. The returned func removes it and
// is safe to call more than once.
func (s *SessionStore) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; !ok {
			return
		}
		delete(s.subs, id)
		for i, o := range s.order {
			if o == id {
				s.order = append(s.order[:i:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// SignIn makes snap the current session.
func (s *SessionStore) SignIn(snap Snapshot) {
	if snap.Identity != nil {
		id := *snap.Identity
		snap.Identity = &id
	}
	s.set(snap)
}

// SignOut clears the current session.
func (s *SessionStore) SignOut() {
	s.set(Snapshot{})
}

// Restore looks up a previously stored token, as done once at application
// start. An unknown or revoked token leaves the store signed out.
func (s *SessionStore) Restore(lookup IdentityLookup, token string) error {
	if token == "" {
		s.SignOut()
		return nil
	}
	identity, err := lookup.Session(token)
	if err != nil {
		s.SignOut()
		return err
	}
	if identity == nil {
		s.SignOut()
		return nil
	}
	s.SignIn(Snapshot{Token: token, Identity: identity})
	return nil
}

func (s *SessionStore) set(snap Snapshot) {
	s.mu.Lock()
	s.current = snap
	fns := make([]func(Snapshot), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
