// store.go holds the in-memory session registry.
//
// Sessions are exclusively owned by one browser tool page — no cross-session
// or cross-tab sharing — so a map behind a sync.RWMutex is all the storage
// this needs. "Navigating away" has no server-side signal, so a janitor
// goroutine expires idle sessions the same way the rate limiter prunes
// stale buckets.
package session

import (
	"log"
	"sync"
	"time"
)

// Store is a thread-safe registry of live sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
// Call Close on shutdown to stop the janitor goroutine.
func NewStore(ttl time.Duration) *Store {
	st := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	go st.janitor()
	return st
}

// Create registers a new session for the given tool.
func (st *Store) Create(tool string) *Session {
	s := newSession(tool)
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the session with the given ID, if it is still live.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete resets a session (releasing all of its resources) and removes it.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()

	if ok {
		s.Reset()
	}
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Close stops the janitor and releases every live session.
func (st *Store) Close() {
	st.stopOnce.Do(func() { close(st.stop) })

	st.mu.Lock()
	sessions := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range sessions {
		s.Reset()
	}
}

// janitor expires idle sessions so abandoned tabs don't pin previews and
// artifacts in memory forever.
func (st *Store) janitor() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-st.stop:
			return
		case <-ticker.C:
			st.expire(time.Now())
		}
	}
}

// expire removes sessions idle past the TTL.
func (st *Store) expire(now time.Time) {
	var expired []*Session

	st.mu.Lock()
	for id, s := range st.sessions {
		s.mu.Lock()
		idle := now.Sub(s.lastActive)
		s.mu.Unlock()
		if idle > st.ttl {
			delete(st.sessions, id)
			expired = append(expired, s)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.Reset()
	}
	if len(expired) > 0 {
		log.Printf("🧹 Expired %d idle session(s)", len(expired))
	}
}
