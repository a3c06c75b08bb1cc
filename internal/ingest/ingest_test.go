package ingest

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/preview"
)

// pngBytes encodes a blank PNG of the given size. Real bytes matter here:
// the pipeline sniffs content, so a fake header would be rejected.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func imagePipeline() *Pipeline {
	return New([]string{"image/png", "image/jpeg", "image/gif", "image/webp"}, 0, 2)
}

func TestIngestAcceptsAndRejects(t *testing.T) {
	p := imagePipeline()
	previews := preview.NewStore()

	candidates := []Candidate{
		{Name: "photo.png", Data: pngBytes(t, 4, 3)},
		{Name: "notes.txt", Data: []byte("just some text")},
		{Name: "renamed.png", Data: []byte("%PDF-1.4 not an image")},
		{Name: "second.png", Data: pngBytes(t, 10, 20)},
	}

	res, err := p.Ingest(context.Background(), previews, candidates)
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	if len(res.Accepted)+res.Rejected != len(candidates) {
		t.Errorf("accepted %d + rejected %d != %d candidates",
			len(res.Accepted), res.Rejected, len(candidates))
	}
	if len(res.Accepted) != 2 {
		t.Fatalf("accepted %d files, want 2", len(res.Accepted))
	}
	if res.Rejected != 2 {
		t.Errorf("rejected %d files, want 2", res.Rejected)
	}

	// Batch-internal order is the input order.
	if res.Accepted[0].Name != "photo.png" || res.Accepted[1].Name != "second.png" {
		t.Errorf("accepted order = [%s, %s], want [photo.png, second.png]",
			res.Accepted[0].Name, res.Accepted[1].Name)
	}

	// Every accepted item has a unique id and a live preview.
	if res.Accepted[0].ID == res.Accepted[1].ID {
		t.Error("accepted items share an id")
	}
	if previews.Len() != 2 {
		t.Errorf("preview store holds %d previews, want 2", previews.Len())
	}
	for _, item := range res.Accepted {
		if _, ok := previews.Get(item.PreviewID); !ok {
			t.Errorf("item %s has no live preview", item.Name)
		}
		if item.ContentType != "image/png" {
			t.Errorf("item %s content type = %s, want image/png (sniffed)", item.Name, item.ContentType)
		}
	}
}

func TestIngestProbesDimensions(t *testing.T) {
	p := imagePipeline()
	previews := preview.NewStore()

	res, err := p.Ingest(context.Background(), previews, []Candidate{
		{Name: "wide.png", Data: pngBytes(t, 640, 480)},
	})
	if err != nil {
		t.Fatalf("Ingest error: %v", err)
	}

	meta := res.Accepted[0].Meta
	if meta == nil {
		t.Fatal("image item has nil Meta after ingest")
	}
	if meta.Width != 640 || meta.Height != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", meta.Width, meta.Height)
	}
}

func TestIngestAllRejectedIsValidationFailure(t *testing.T) {
	p := imagePipeline()
	previews := preview.NewStore()

	_, err := p.Ingest(context.Background(), previews, []Candidate{
		{Name: "a.txt", Data: []byte("plain text")},
		{Name: "b.txt", Data: []byte("more text")},
	})
	if !errors.Is(err, ErrNoFilesAccepted) {
		t.Fatalf("err = %v, want ErrNoFilesAccepted", err)
	}
	if previews.Len() != 0 {
		t.Errorf("rejected batch leaked %d previews", previews.Len())
	}
}

func TestIngestEmptyBatch(t *testing.T) {
	p := imagePipeline()

	res, err := p.Ingest(context.Background(), preview.NewStore(), nil)
	if err != nil {
		t.Fatalf("empty batch returned error: %v", err)
	}
	if len(res.Accepted) != 0 || res.Rejected != 0 {
		t.Errorf("empty batch produced %+v", res)
	}
}

func TestIngestSizeLimit(t *testing.T) {
	big := pngBytes(t, 50, 50)
	p := New([]string{"image/png"}, int64(len(big))-1, 2)

	res, err := p.Ingest(context.Background(), preview.NewStore(), []Candidate{
		{Name: "big.png", Data: big},
	})
	if !errors.Is(err, ErrNoFilesAccepted) {
		t.Fatalf("err = %v, want ErrNoFilesAccepted for oversized file", err)
	}
	if res.Rejected != 1 {
		t.Errorf("rejected = %d, want 1", res.Rejected)
	}
}

func TestAccepts(t *testing.T) {
	p := New([]string{"application/pdf"}, 0, 1)

	tests := []struct {
		ct   string
		want bool
	}{
		{"application/pdf", true},
		{"Application/PDF", true},
		{"application/pdf; charset=binary", true},
		{"image/png", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := p.Accepts(tt.ct); got != tt.want {
			t.Errorf("Accepts(%q) = %v, want %v", tt.ct, got, tt.want)
		}
	}
}
