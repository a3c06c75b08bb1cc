// Package session owns the per-tool-page working state: the ordered item
// collection, the preview store, and the single result artifact.
//
// Each browser tool page gets one session. All mutation goes through the
// methods here — never through direct slice surgery in handlers — so every
// exit path (remove, reset, replacement, expiry) provably releases the
// preview and artifact resources it owns. A mutex serializes mutations,
// which also serializes ingestion batches: two concurrent uploads append
// one after the other, each batch internally ordered.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/artifact"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/collection"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/ingest"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/preview"
)

// State is the session lifecycle position.
//
// Idle → Ingesting → Ready → Processing → Result → Idle (reset).
// Processing failure returns to Ready with the items intact and the error
// retained; removing the last item collapses Ready back to Idle.
type State string

const (
	StateIdle       State = "idle"
	StateIngesting  State = "ingesting"
	StateReady      State = "ready"
	StateProcessing State = "processing"
	StateResult     State = "result"
)

// ErrProcessing is returned for mutations attempted while a run is in
// flight. The frontend disables its controls then, so hitting this means a
// stale or misbehaving client — the session state is left untouched.
var ErrProcessing = errors.New("a processing run is in progress")

// ErrNoItems is returned when processing is requested with an empty collection.
var ErrNoItems = errors.New("no items to process")

// Session is one tool page's working state.
type Session struct {
	ID        string
	Tool      string
	CreatedAt time.Time

	mu         sync.Mutex
	state      State
	generation uint64
	items      *collection.Collection
	previews   *preview.Store
	artifacts  *artifact.Store
	lastError  string
	lastActive time.Time

	// Page-mode tools (PDF organizer) upload one document whose pages
	// become items; the document bytes live here, not on the items.
	sourceDoc  []byte
	sourceName string
}

func newSession(tool string) *Session {
	s := &Session{
		ID:         uuid.New().String(),
		Tool:       tool,
		CreatedAt:  time.Now(),
		state:      StateIdle,
		previews:   preview.NewStore(),
		artifacts:  artifact.NewStore(),
		lastActive: time.Now(),
	}
	s.items = collection.New(func(previewID string) {
		s.previews.Revoke(previewID)
	})
	return s
}

// Previews exposes the session's preview store for serving handles.
func (s *Session) Previews() *preview.Store { return s.previews }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ingest runs the pipeline and appends the accepted items. The session mutex
// is held for the whole batch, so batches never interleave.
func (s *Session) Ingest(ctx context.Context, p *ingest.Pipeline, candidates []ingest.Candidate) (ingest.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state == StateProcessing {
		return ingest.Result{}, ErrProcessing
	}

	prev := s.state
	s.state = StateIngesting
	res, err := p.Ingest(ctx, s.previews, candidates)
	if err != nil {
		s.state = prev
		return res, err
	}

	s.items.Append(res.Accepted...)
	s.settleState()
	return res, nil
}

// ReplaceWithDocument installs a source document and its per-page items,
// releasing whatever the session held before. Used by page-mode tools where
// one uploaded PDF becomes N reorderable page items.
func (s *Session) ReplaceWithDocument(name string, data []byte, pages []*collection.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state == StateProcessing {
		return ErrProcessing
	}

	s.items.Clear()
	s.artifacts.Clear()
	s.sourceDoc = data
	s.sourceName = name
	s.items.Append(pages...)
	s.settleState()
	return nil
}

// RemoveItem deletes an item (and revokes its preview). No-op when absent.
func (s *Session) RemoveItem(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state == StateProcessing {
		return false, ErrProcessing
	}
	removed := s.items.Remove(id)
	s.settleState()
	return removed, nil
}

// MoveItem applies the splice-out/splice-in reorder from the drag-and-drop UI.
func (s *Session) MoveItem(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state == StateProcessing {
		return ErrProcessing
	}
	return s.items.MoveTo(from, to)
}

// MoveItemAdjacent swaps an item with its neighbor. A boundary move is a
// quiet no-op and still reports the item as found — only a genuinely
// absent id returns found=false.
func (s *Session) MoveItemAdjacent(id string, dir collection.Direction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state == StateProcessing {
		return false, ErrProcessing
	}
	found, _ := s.items.MoveAdjacent(id, dir)
	return found, nil
}

// RotateItem advances an item's rotation by 90°.
func (s *Session) RotateItem(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state == StateProcessing {
		return false, ErrProcessing
	}
	return s.items.ToggleRotation(id), nil
}

// Payload is the processing snapshot handed to a worker: the items in
// display order plus the source document for page-mode tools. Items are not
// copied — mutations are blocked while the session is Processing, so the
// worker reads them race-free.
type Payload struct {
	Items      []*collection.Item
	SourceDoc  []byte
	SourceName string
}

// BeginProcessing transitions Ready (or Result, for a re-run) to Processing
// and returns the generation token the eventual result must present.
func (s *Session) BeginProcessing() (uint64, Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	switch s.state {
	case StateProcessing:
		return 0, Payload{}, ErrProcessing
	case StateReady, StateResult:
		// ok
	default:
		return 0, Payload{}, ErrNoItems
	}
	if s.items.Len() == 0 {
		return 0, Payload{}, ErrNoItems
	}

	s.state = StateProcessing
	s.lastError = ""
	return s.generation, Payload{
		Items:      s.items.Items(),
		SourceDoc:  s.sourceDoc,
		SourceName: s.sourceName,
	}, nil
}

// ApplyResult installs a finished artifact — unless the generation is stale,
// in which case the session was reset mid-flight and the late result is
// released and discarded rather than applied to state it no longer matches.
func (s *Session) ApplyResult(generation uint64, a *artifact.Artifact) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.state != StateProcessing {
		a.Release()
		return false
	}

	s.artifacts.Set(a)
	s.state = StateResult
	s.lastError = ""
	return true
}

// ApplyError records a failed run. The session returns to Ready — items are
// retained so the user can retry without re-uploading (nothing is lost).
func (s *Session) ApplyError(generation uint64, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.state != StateProcessing {
		return false
	}

	s.lastError = message
	s.settleState()
	return true
}

// Artifact returns the current result artifact, or nil.
func (s *Session) Artifact() *artifact.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.artifacts.Get()
}

// Reset releases every resource the session owns and returns it to Idle.
// The generation bump makes any in-flight run's result undeliverable.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.generation++
	s.items.Clear()
	s.previews.RevokeAll()
	s.artifacts.Clear()
	s.sourceDoc = nil
	s.sourceName = ""
	s.lastError = ""
	s.state = StateIdle
}

// settleState recomputes the resting state from the collection contents.
func (s *Session) settleState() {
	if s.items.Len() == 0 {
		s.state = StateIdle
		return
	}
	if s.state != StateResult {
		s.state = StateReady
	}
}

// touch must be called with s.mu held.
func (s *Session) touch() {
	s.lastActive = time.Now()
}

// --- API view ---

// ItemView is the serialized form of a collection item.
type ItemView struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	ContentType string           `json:"content_type"`
	Size        int64            `json:"size"`
	Page        int              `json:"page,omitempty"`
	Rotation    int              `json:"rotation"`
	Meta        *collection.Meta `json:"meta,omitempty"`
	PreviewURL  string           `json:"preview_url,omitempty"`
}

// ArtifactView describes the downloadable result without its bytes.
type ArtifactView struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// View is the session snapshot returned by GET /session.
type View struct {
	ID         string        `json:"id"`
	Tool       string        `json:"tool"`
	State      State         `json:"state"`
	SourceName string        `json:"source_name,omitempty"`
	Items      []ItemView    `json:"items"`
	Error      string        `json:"error,omitempty"`
	Artifact   *ArtifactView `json:"artifact,omitempty"`
}

// View builds a consistent snapshot for the API.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:    s.ID,
		Tool:  s.Tool,
		State: s.state,
		Error: s.lastError,
		Items: make([]ItemView, 0, s.items.Len()),
	}
	v.SourceName = s.sourceName

	for _, it := range s.items.Items() {
		iv := ItemView{
			ID:          it.ID,
			Name:        it.Name,
			ContentType: it.ContentType,
			Size:        it.Size,
			Page:        it.Page,
			Rotation:    it.Rotation,
			Meta:        it.Meta,
		}
		if it.PreviewID != "" {
			iv.PreviewURL = fmt.Sprintf("/api/v1/session/previews/%s", it.PreviewID)
		}
		v.Items = append(v.Items, iv)
	}

	if a := s.artifacts.Get(); a != nil {
		v.Artifact = &ArtifactView{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Size:        a.Size(),
		}
	}
	return v
}
