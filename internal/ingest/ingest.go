// Package ingest validates uploaded files and turns them into collection
// items with preview handles and derived metadata.
//
// Validation is by content sniffing, not by trusting the browser's declared
// Content-Type or the filename extension — a .png full of JavaScript is
// rejected here no matter what the multipart part claims.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	// Register the decoders DecodeConfig needs for dimension probing.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/collection"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/preview"
)

// ErrNoFilesAccepted is returned when a non-empty batch yields zero accepted
// files. It is a user-facing validation failure, not a server error — the
// handler surfaces it as a 400 and the session keeps its existing items.
var ErrNoFilesAccepted = errors.New("no files of an accepted type were provided")

// Candidate is one file offered for ingestion.
type Candidate struct {
	Name string
	Data []byte
}

// Result reports a combined batch outcome: accepted items are kept even when
// some candidates were rejected, never a silent partial failure.
type Result struct {
	Accepted []*collection.Item
	Rejected int
}

// Pipeline validates candidates against a per-tool allow-list.
type Pipeline struct {
	allowed      map[string]bool
	maxFileBytes int64
	probeWorkers int
}

// New creates a pipeline accepting the given MIME types. maxFileBytes of 0
// means no per-file limit; probeWorkers bounds concurrent metadata probes.
func New(acceptedTypes []string, maxFileBytes int64, probeWorkers int) *Pipeline {
	allowed := make(map[string]bool, len(acceptedTypes))
	for _, t := range acceptedTypes {
		allowed[strings.ToLower(strings.TrimSpace(t))] = true
	}
	if probeWorkers < 1 {
		probeWorkers = 4
	}
	return &Pipeline{
		allowed:      allowed,
		maxFileBytes: maxFileBytes,
		probeWorkers: probeWorkers,
	}
}

// Accepts reports whether the pipeline accepts the given MIME type.
func (p *Pipeline) Accepts(contentType string) bool {
	return p.allowed[normalizeMIME(contentType)]
}

// Ingest filters candidates, allocates a preview handle per accepted file,
// and probes derived metadata (pixel dimensions) with a bounded worker group.
//
// Batch-internal order is preserved: accepted items come back in input
// order regardless of which probe finishes first. On error every preview
// allocated so far is revoked — Ingest either fully applies or not at all.
func (p *Pipeline) Ingest(ctx context.Context, previews *preview.Store, candidates []Candidate) (Result, error) {
	var res Result

	for _, cand := range candidates {
		if p.maxFileBytes > 0 && int64(len(cand.Data)) > p.maxFileBytes {
			res.Rejected++
			continue
		}

		detected := mimetype.Detect(cand.Data)
		if !p.allowed[normalizeMIME(detected.String())] {
			res.Rejected++
			continue
		}

		res.Accepted = append(res.Accepted, &collection.Item{
			ID:          uuid.New().String(),
			Name:        cand.Name,
			ContentType: normalizeMIME(detected.String()),
			Size:        int64(len(cand.Data)),
			Data:        cand.Data,
		})
	}

	if len(res.Accepted) == 0 {
		if len(candidates) > 0 {
			return Result{Rejected: res.Rejected}, ErrNoFilesAccepted
		}
		return res, nil
	}

	// Allocate previews up front so failure cleanup has a single list to walk.
	for _, item := range res.Accepted {
		item.PreviewID = previews.Allocate(item.Data, item.ContentType)
	}

	if err := p.probeMeta(ctx, res.Accepted); err != nil {
		for _, item := range res.Accepted {
			previews.Revoke(item.PreviewID)
		}
		return Result{}, fmt.Errorf("ingest aborted: %w", err)
	}

	return res, nil
}

// probeMeta fills in pixel dimensions for image items. Non-image items and
// undecodable images simply keep a nil Meta — missing dimensions are not an
// ingestion failure.
func (p *Pipeline) probeMeta(ctx context.Context, items []*collection.Item) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.probeWorkers)

	for _, item := range items {
		item := item
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if !strings.HasPrefix(item.ContentType, "image/") {
				return nil
			}
			// DecodeConfig reads only the header — no pixel decode.
			cfg, _, err := image.DecodeConfig(bytes.NewReader(item.Data))
			if err != nil {
				return nil
			}
			item.Meta = &collection.Meta{Width: cfg.Width, Height: cfg.Height}
			return nil
		})
	}

	return g.Wait()
}

// normalizeMIME lowercases a MIME type and strips any parameters
// ("image/png; charset=binary" -> "image/png").
func normalizeMIME(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.Index(ct, ";"); i > 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
