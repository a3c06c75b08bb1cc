// Package artifact implements the single-result store behind every tool's
// download button.
//
// Each session holds at most one generated artifact — the merged PDF, the
// converted image ZIP, the extracted-links text file. A new successful run
// replaces (and releases) the previous result; there is deliberately no
// history or versioning, matching the pages' "one result per run" behavior.
package artifact

import "sync"

// Artifact is the most recent output of a processing operation.
type Artifact struct {
	Data        []byte
	Filename    string
	ContentType string

	release func()
	once    sync.Once
}

// New creates an artifact. release may be nil; when set it runs exactly once,
// on replacement or disposal, making resource lifetime observable in tests.
func New(data []byte, filename, contentType string, release func()) *Artifact {
	return &Artifact{
		Data:        data,
		Filename:    filename,
		ContentType: contentType,
		release:     release,
	}
}

// Release frees the artifact's underlying resource. Safe to call repeatedly.
func (a *Artifact) Release() {
	a.once.Do(func() {
		a.Data = nil
		if a.release != nil {
			a.release()
		}
	})
}

// Size returns the artifact's byte size.
func (a *Artifact) Size() int64 {
	return int64(len(a.Data))
}

// Store holds at most one live artifact.
type Store struct {
	mu      sync.Mutex
	current *Artifact
}

// NewStore creates an empty artifact store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the current artifact, releasing the one it displaces.
func (s *Store) Set(a *Artifact) {
	s.mu.Lock()
	prev := s.current
	s.current = a
	s.mu.Unlock()

	if prev != nil {
		prev.Release()
	}
}

// Get returns the current artifact, or nil.
func (s *Store) Get() *Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Clear releases the current artifact and empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	if prev != nil {
		prev.Release()
	}
}
