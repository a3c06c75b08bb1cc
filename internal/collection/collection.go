// Package collection implements the ordered item list behind every tool
// session: the image list on the images-to-PDF page, the page thumbnails on
// the organizer page, and so on.
//
// The slice order is the single source of truth for processing order. The
// frontend's drag-and-drop, arrow buttons and delete buttons all map onto
// the operations here, so the index math lives in exactly one place instead
// of being spliced ad hoc in every event handler.
package collection

import "fmt"

// Direction selects a neighbor for MoveAdjacent.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Meta holds lazily-derived file metadata. It is set at most once; after
// that the values are read-only.
type Meta struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Item is one user-supplied unit being tracked: an uploaded file or a single
// page of an uploaded document. Its ID is stable for the item's lifetime and
// unique within its owning collection.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`

	// PreviewID references the session preview store; empty until a
	// preview has been generated. Removing the item must revoke it.
	PreviewID string `json:"preview_id,omitempty"`

	// Page is the 1-based page number for document-page items, 0 otherwise.
	Page int `json:"page,omitempty"`

	// Rotation in degrees, always one of 0, 90, 180, 270.
	Rotation int `json:"rotation"`

	// Meta is nil until derived metadata (pixel dimensions) is available.
	Meta *Meta `json:"meta,omitempty"`

	// Data holds the item's source bytes. Nil for page items, whose bytes
	// live in the session's source document.
	Data []byte `json:"-"`
}

// ReleaseFunc is called with an item's preview ID whenever the item leaves
// the collection, so the owning session can revoke the preview resource.
type ReleaseFunc func(previewID string)

// Collection is an insertion-ordered, mutable sequence of items.
//
// It is not safe for concurrent use — the owning session serializes access.
// Every operation either fully applies or (for the documented no-op cases)
// fully does not apply; there is no partial-failure state.
type Collection struct {
	items   []*Item
	byID    map[string]*Item
	release ReleaseFunc
}

// New creates an empty collection. release may be nil when nothing owns
// preview resources (tests, page-mode collections).
func New(release ReleaseFunc) *Collection {
	return &Collection{
		byID:    make(map[string]*Item),
		release: release,
	}
}

// Len returns the number of live items.
func (c *Collection) Len() int {
	return len(c.items)
}

// Items returns the items in display/processing order. The returned slice
// is a copy; the items themselves are shared.
func (c *Collection) Items() []*Item {
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the item with the given ID, or nil.
func (c *Collection) Get(id string) *Item {
	return c.byID[id]
}

// IndexOf returns the position of the item with the given ID, or -1.
func (c *Collection) IndexOf(id string) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Append adds items to the end, preserving their relative order.
//
// Duplicate IDs are a programming error, not a runtime condition — the
// ingestion pipeline generates fresh UUIDs — so Append panics rather than
// returning an error the caller could never meaningfully handle.
func (c *Collection) Append(items ...*Item) {
	for _, it := range items {
		if _, exists := c.byID[it.ID]; exists {
			panic(fmt.Sprintf("collection: duplicate item id %q", it.ID))
		}
		c.byID[it.ID] = it
		c.items = append(c.items, it)
	}
}

// Remove deletes the item with the given ID and revokes its preview.
// Removing an absent ID is a no-op; the bool reports whether anything changed.
func (c *Collection) Remove(id string) bool {
	i := c.IndexOf(id)
	if i < 0 {
		return false
	}
	item := c.items[i]
	c.items = append(c.items[:i], c.items[i+1:]...)
	delete(c.byID, id)
	c.releasePreview(item)
	return true
}

// MoveAdjacent swaps the item with its immediate neighbor in the given
// direction. Moving the first item up or the last item down is a no-op,
// which is distinct from the id not existing at all: found reports
// whether the item is present, moved whether anything changed.
func (c *Collection) MoveAdjacent(id string, dir Direction) (found, moved bool) {
	i := c.IndexOf(id)
	if i < 0 {
		return false, false
	}

	j := i + 1
	if dir == Up {
		j = i - 1
	}
	if j < 0 || j >= len(c.items) {
		return true, false // boundary — nothing to swap with
	}

	c.items[i], c.items[j] = c.items[j], c.items[i]
	return true, true
}

// MoveTo removes the item at from and reinserts it so that it ends up at
// to in the resulting sequence. This is the one place the drag-and-drop
// index adjustment lives: the insertion index is applied to the
// post-removal slice, so "drag item 0 to position 2" really lands it at
// index 2, not 3.
//
// Out-of-range indices are a caller error.
func (c *Collection) MoveTo(from, to int) error {
	n := len(c.items)
	if from < 0 || from >= n {
		return fmt.Errorf("move: from index %d out of range [0,%d)", from, n)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("move: to index %d out of range [0,%d)", to, n)
	}
	if from == to {
		return nil
	}

	item := c.items[from]
	c.items = append(c.items[:from], c.items[from+1:]...)

	// Insert at to, computed against the slice after removal.
	c.items = append(c.items, nil)
	copy(c.items[to+1:], c.items[to:])
	c.items[to] = item
	return nil
}

// ToggleRotation advances the item's rotation by 90° modulo 360.
// Order is untouched. Unknown IDs are a no-op.
func (c *Collection) ToggleRotation(id string) bool {
	item := c.byID[id]
	if item == nil {
		return false
	}
	item.Rotation = (item.Rotation + 90) % 360
	return true
}

// Clear removes every item and revokes every preview.
func (c *Collection) Clear() {
	for _, it := range c.items {
		c.releasePreview(it)
	}
	c.items = nil
	c.byID = make(map[string]*Item)
}

func (c *Collection) releasePreview(item *Item) {
	if c.release != nil && item.PreviewID != "" {
		c.release(item.PreviewID)
	}
}
