// collection_test.go exercises the ordering invariants that back the
// drag-and-drop and arrow-button UI. The MoveTo round-trip test matters
// most: off-by-one insertion math is the classic bug in this code.
package collection

import (
	"fmt"
	"testing"
)

// newTestCollection builds a collection of n items with ids "item1"..."itemN"
// and preview ids "p1"..."pN", recording every preview release in released.
func newTestCollection(n int, released *[]string) *Collection {
	c := New(func(previewID string) {
		if released != nil {
			*released = append(*released, previewID)
		}
	})
	for i := 1; i <= n; i++ {
		c.Append(&Item{
			ID:        fmt.Sprintf("item%d", i),
			Name:      fmt.Sprintf("file%d.png", i),
			PreviewID: fmt.Sprintf("p%d", i),
		})
	}
	return c
}

func order(c *Collection) []string {
	ids := make([]string, 0, c.Len())
	for _, it := range c.Items() {
		ids = append(ids, it.ID)
	}
	return ids
}

func assertOrder(t *testing.T, c *Collection, want ...string) {
	t.Helper()
	got := order(c)
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestAppendPreservesOrder(t *testing.T) {
	c := newTestCollection(3, nil)
	assertOrder(t, c, "item1", "item2", "item3")
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
}

func TestAppendDuplicateIDPanics(t *testing.T) {
	c := newTestCollection(1, nil)
	defer func() {
		if recover() == nil {
			t.Error("Append with duplicate id did not panic")
		}
	}()
	c.Append(&Item{ID: "item1"})
}

func TestRemove(t *testing.T) {
	var released []string
	c := newTestCollection(3, &released)

	if !c.Remove("item2") {
		t.Fatal("Remove(item2) = false, want true")
	}
	assertOrder(t, c, "item1", "item3")
	if c.Get("item2") != nil {
		t.Error("removed item still retrievable by id")
	}
	if len(released) != 1 || released[0] != "p2" {
		t.Errorf("released previews = %v, want [p2]", released)
	}

	// Removing an absent id is a no-op.
	if c.Remove("item2") {
		t.Error("second Remove(item2) = true, want false")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestMoveAdjacentBoundaries(t *testing.T) {
	c := newTestCollection(3, nil)

	// First item up and last item down are no-ops — but the items are
	// still found, unlike an absent id.
	if found, moved := c.MoveAdjacent("item1", Up); !found || moved {
		t.Errorf("MoveAdjacent(first, up) = (%v, %v), want (true, false)", found, moved)
	}
	if found, moved := c.MoveAdjacent("item3", Down); !found || moved {
		t.Errorf("MoveAdjacent(last, down) = (%v, %v), want (true, false)", found, moved)
	}
	assertOrder(t, c, "item1", "item2", "item3")

	if found, moved := c.MoveAdjacent("nope", Up); found || moved {
		t.Errorf("MoveAdjacent(absent, up) = (%v, %v), want (false, false)", found, moved)
	}

	if found, moved := c.MoveAdjacent("item2", Up); !found || !moved {
		t.Fatalf("MoveAdjacent(item2, up) = (%v, %v), want (true, true)", found, moved)
	}
	assertOrder(t, c, "item2", "item1", "item3")

	if found, moved := c.MoveAdjacent("item1", Down); !found || !moved {
		t.Fatalf("MoveAdjacent(item1, down) = (%v, %v), want (true, true)", found, moved)
	}
	assertOrder(t, c, "item2", "item3", "item1")
}

func TestMoveTo(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward lands at target", 0, 2, []string{"item2", "item3", "item1", "item4"}},
		{"backward lands at target", 3, 1, []string{"item1", "item4", "item2", "item3"}},
		{"to end", 0, 3, []string{"item2", "item3", "item4", "item1"}},
		{"to front", 2, 0, []string{"item3", "item1", "item2", "item4"}},
		{"same index no-op", 1, 1, []string{"item1", "item2", "item3", "item4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCollection(4, nil)
			if err := c.MoveTo(tt.from, tt.to); err != nil {
				t.Fatalf("MoveTo(%d, %d) error: %v", tt.from, tt.to, err)
			}
			assertOrder(t, c, tt.want...)
		})
	}
}

func TestMoveToOutOfRange(t *testing.T) {
	c := newTestCollection(2, nil)
	for _, pair := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if err := c.MoveTo(pair[0], pair[1]); err == nil {
			t.Errorf("MoveTo(%d, %d) = nil error, want out-of-range error", pair[0], pair[1])
		}
	}
	assertOrder(t, c, "item1", "item2")
}

// TestMoveToRoundTrip: MoveTo(i, j) followed by MoveTo(j, i) restores the
// original order for every valid pair. This is the property that catches
// pre-removal vs post-removal insertion index confusion.
func TestMoveToRoundTrip(t *testing.T) {
	const n = 5
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			c := newTestCollection(n, nil)
			before := order(c)

			if err := c.MoveTo(i, j); err != nil {
				t.Fatalf("MoveTo(%d, %d) error: %v", i, j, err)
			}
			if err := c.MoveTo(j, i); err != nil {
				t.Fatalf("inverse MoveTo(%d, %d) error: %v", j, i, err)
			}

			after := order(c)
			for k := range before {
				if before[k] != after[k] {
					t.Fatalf("round trip (%d,%d) changed order: %v -> %v", i, j, before, after)
				}
			}
		}
	}
}

func TestToggleRotation(t *testing.T) {
	c := newTestCollection(2, nil)

	want := []int{90, 180, 270, 0, 90}
	for _, deg := range want {
		if !c.ToggleRotation("item1") {
			t.Fatal("ToggleRotation(item1) = false, want true")
		}
		if got := c.Get("item1").Rotation; got != deg {
			t.Fatalf("Rotation = %d, want %d", got, deg)
		}
	}

	// Rotation never reorders and never touches other items.
	assertOrder(t, c, "item1", "item2")
	if c.Get("item2").Rotation != 0 {
		t.Errorf("item2 rotation = %d, want 0", c.Get("item2").Rotation)
	}

	if c.ToggleRotation("missing") {
		t.Error("ToggleRotation(missing) = true, want false")
	}
}

func TestClearReleasesAllPreviews(t *testing.T) {
	var released []string
	c := newTestCollection(3, &released)

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", c.Len())
	}
	if len(released) != 3 {
		t.Errorf("released %d previews, want 3", len(released))
	}
}

// TestIngestReorderRemoveScenario mirrors the end-to-end UI flow: add three
// images, drag the third to the front, delete what was originally second.
func TestIngestReorderRemoveScenario(t *testing.T) {
	c := newTestCollection(3, nil)

	if err := c.MoveTo(2, 0); err != nil {
		t.Fatalf("MoveTo(2, 0) error: %v", err)
	}
	assertOrder(t, c, "item3", "item1", "item2")

	if !c.Remove("item2") {
		t.Fatal("Remove(item2) = false, want true")
	}
	assertOrder(t, c, "item3", "item1")
}
