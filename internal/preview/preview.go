// Package preview holds revocable preview handles for uploaded files.
//
// This is the server-side counterpart of the object URLs the browser pages
// used to create with URL.createObjectURL: a handle the frontend can render
// (GET /session/previews/:id) and that MUST be revoked when its owning item
// is removed, or the bytes leak for the life of the session.
//
// Grounded on the same map+RWMutex store shape as the session store.
package preview

import (
	"sync"

	"github.com/google/uuid"
)

// Preview is one renderable representation of a file.
type Preview struct {
	Data        []byte
	ContentType string
}

// Store is a thread-safe registry of live previews for one session.
type Store struct {
	mu       sync.RWMutex
	previews map[string]*Preview
}

// NewStore creates an empty preview store.
func NewStore() *Store {
	return &Store{previews: make(map[string]*Preview)}
}

// Allocate registers data under a fresh handle and returns the handle ID.
// Every Allocate must be paired with a Revoke on some exit path.
func (s *Store) Allocate(data []byte, contentType string) string {
	id := uuid.New().String()
	s.mu.Lock()
	s.previews[id] = &Preview{Data: data, ContentType: contentType}
	s.mu.Unlock()
	return id
}

// Get returns the preview for a handle, or (nil, false) after revocation.
func (s *Store) Get(id string) (*Preview, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.previews[id]
	return p, ok
}

// Revoke releases the preview for a handle. Revoking an unknown or
// already-revoked handle is a no-op.
func (s *Store) Revoke(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.previews[id]; !ok {
		return false
	}
	delete(s.previews, id)
	return true
}

// RevokeAll releases every live preview. Called on session reset and expiry.
func (s *Store) RevokeAll() {
	s.mu.Lock()
	s.previews = make(map[string]*Preview)
	s.mu.Unlock()
}

// Len returns the number of live previews. Used by tests to verify that
// removal paths actually release their resources.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.previews)
}
