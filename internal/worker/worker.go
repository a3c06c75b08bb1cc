// Package worker runs processing jobs on a pool of goroutines.
//
// Go Pattern: A buffered channel is the job queue, N worker goroutines
// range over it, HTTP handlers submit without blocking. The handler
// answers 202 immediately and the tool page polls its session; the worker
// delivers the finished artifact back to the session — or discards it if
// the session was reset while the run was in flight.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/artifact"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/database"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/models"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/services/pdfdoc"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/services/process"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/session"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/textmetrics"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/tools"
)

// Job is one queued processing run. The payload was snapshotted by
// BeginProcessing, so the worker never touches live session internals —
// only the generation-checked Apply methods.
type Job struct {
	RunID      string
	SessionID  string
	Generation uint64
	Tool       *tools.Tool
	Settings   map[string]any
	Payload    session.Payload
	CreatedAt  time.Time
}

// Pool manages the worker goroutines.
type Pool struct {
	jobs     chan Job
	workers  int
	db       *database.DB
	sessions *session.Store
	client   *process.Client

	// Go Pattern: sync.WaitGroup tracks running goroutines; ctx+cancel
	// signals shutdown. Stop closes the channel so workers drain what's
	// queued, then waits.
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	// run is processRun; tests swap it to observe job dispatch.
	run func(Job) error
}

// NewPool creates a worker pool.
func NewPool(workers, queueSize int, db *database.DB, sessions *session.Store, client *process.Client) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		jobs:     make(chan Job, queueSize),
		workers:  workers,
		db:       db,
		sessions: sessions,
		client:   client,
		ctx:      ctx,
		cancel:   cancel,
	}
	p.run = p.processRun
	return p
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	log.Printf("🚀 Starting %d background workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop gracefully shuts down all workers. The channel is closed first so
// workers drain everything already queued — a queued run's session is
// sitting in Processing and would be stuck there forever if its job were
// abandoned. The context is cancelled only after the drain completes.
func (p *Pool) Stop() {
	log.Println("⏹️  Stopping workers...")
	close(p.jobs)
	p.wg.Wait()
	p.cancel()
	log.Println("✅ All workers stopped")
}

// Submit adds a job to the queue. Returns an error when the queue is full —
// the handler turns that into a 503 rather than blocking the request.
func (p *Pool) Submit(job Job) error {
	select {
	case p.jobs <- job:
		log.Printf("📥 Run queued: %s (tool: %s)", job.RunID, job.Tool.Name)
		return nil
	default:
		return fmt.Errorf("job queue is full; try again later")
	}
}

// QueueSize returns the current number of queued jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}

// WorkerCount returns the number of workers.
func (p *Pool) WorkerCount() int {
	return p.workers
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	log.Printf("👷 Worker %d started", id)

	for job := range p.jobs {
		log.Printf("👷 Worker %d processing run %s (tool: %s)", id, job.RunID, job.Tool.Name)
		if err := p.run(job); err != nil {
			log.Printf("❌ Worker %d: run %s failed: %v", id, job.RunID, err)
		} else {
			log.Printf("✅ Worker %d: run %s completed", id, job.RunID)
		}
	}

	log.Printf("👷 Worker %d stopped", id)
}

// processRun executes one run end to end: produce the artifact, hand it to
// the session under the generation check, record the outcome.
func (p *Pool) processRun(job Job) error {
	ctx := p.ctx

	run, err := p.db.GetToolRun(ctx, job.RunID)
	if err != nil {
		return fmt.Errorf("failed to load run record: %w", err)
	}

	run.Status = models.RunProcessing
	if err := p.db.UpdateToolRun(ctx, run); err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}

	s, ok := p.sessions.Get(job.SessionID)
	if !ok {
		run.Status = models.RunFailed
		run.ErrorMessage = "session expired before processing started"
		p.db.UpdateToolRun(ctx, run)
		return fmt.Errorf("session %s gone", job.SessionID)
	}

	var art *artifact.Artifact
	if job.Tool.Kind == tools.KindLocal {
		art, err = p.runLocal(job)
	} else {
		art, err = p.runRemote(ctx, job)
	}

	if err != nil {
		// User-facing failure: the session returns to Ready with its
		// items intact so the user can retry without re-uploading.
		s.ApplyError(job.Generation, userMessage(err))
		run.Status = models.RunFailed
		run.ErrorMessage = err.Error()
		p.db.UpdateToolRun(ctx, run)
		return err
	}

	// Snapshot metadata first: once delivered, a concurrent reset may
	// release the artifact at any moment.
	artName, artSize, artType := art.Filename, art.Size(), art.ContentType

	if !s.ApplyResult(job.Generation, art) {
		// The session was reset mid-flight. ApplyResult already released
		// the artifact; the run record keeps the reason.
		run.Status = models.RunFailed
		run.ErrorMessage = "result discarded: session was reset during processing"
		p.db.UpdateToolRun(ctx, run)
		return nil
	}

	run.Status = models.RunCompleted
	run.ArtifactName = artName
	run.ArtifactSize = artSize
	run.ContentType = artType
	if err := p.db.UpdateToolRun(ctx, run); err != nil {
		log.Printf("⚠️  Failed to save run outcome for %s: %v", run.ID, err)
		// Non-fatal — the artifact is already delivered to the session.
	}
	return nil
}

// runRemote packages the payload for the processing service.
func (p *Pool) runRemote(ctx context.Context, job Job) (*artifact.Artifact, error) {
	req := process.Request{
		Endpoint: job.Tool.Endpoint,
		Settings: job.Settings,
	}
	if req.Settings == nil {
		req.Settings = map[string]any{}
	}

	if job.Tool.Mode == tools.ModePages {
		// One source document; the item order is the requested page order.
		req.Files = []process.File{{
			Name:        job.Payload.SourceName,
			ContentType: "application/pdf",
			Data:        job.Payload.SourceDoc,
		}}
		pages := make([]int, 0, len(job.Payload.Items))
		rotations := map[string]int{}
		for _, it := range job.Payload.Items {
			pages = append(pages, it.Page)
			if it.Rotation != 0 {
				rotations[fmt.Sprintf("%d", it.Page)] = it.Rotation
			}
		}
		req.Settings["pages"] = pages
		if len(rotations) > 0 {
			req.Settings["rotations"] = rotations
		}
	} else {
		rotations := make([]int, 0, len(job.Payload.Items))
		rotated := false
		for _, it := range job.Payload.Items {
			req.Files = append(req.Files, process.File{
				Name:        it.Name,
				ContentType: it.ContentType,
				Data:        it.Data,
			})
			rotations = append(rotations, it.Rotation)
			if it.Rotation != 0 {
				rotated = true
			}
		}
		if rotated {
			req.Settings["rotations"] = rotations
		}
	}

	res, err := p.client.Process(ctx, req)
	if err != nil {
		return nil, err
	}

	filename := res.Filename
	if filename == "" {
		filename = defaultFilename(job.Tool.Name, res.ContentType)
	}
	return artifact.New(res.Data, filename, res.ContentType, nil), nil
}

// runLocal handles the tools that never leave the process.
func (p *Pool) runLocal(job Job) (*artifact.Artifact, error) {
	if len(job.Payload.Items) == 0 || job.Payload.Items[0].Data == nil {
		return nil, fmt.Errorf("no document to process")
	}
	doc := job.Payload.Items[0]

	text, err := pdfdoc.ExtractText(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("text extraction failed: %w", err)
	}

	switch job.Tool.LocalOp {
	case "extract-links":
		uniqueOnly := true
		if v, ok := job.Settings["unique_only"].(bool); ok {
			uniqueOnly = v
		}
		links := pdfdoc.ExtractLinks(text, uniqueOnly)
		if len(links) == 0 {
			return nil, fmt.Errorf("no links found in %s", doc.Name)
		}
		data := []byte(strings.Join(links, "\n") + "\n")
		return artifact.New(data, "links.txt", "text/plain; charset=utf-8", nil), nil

	case "word-count":
		snapshot := textmetrics.Compute(text)
		data, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to serialize metrics: %w", err)
		}
		return artifact.New(data, "word-count.json", "application/json; charset=utf-8", nil), nil
	}

	return nil, fmt.Errorf("unknown local operation %q", job.Tool.LocalOp)
}

// userMessage picks the message shown inline on the page. Remote errors
// carry upstream detail worth surfacing; transport failures get a generic
// line instead of a Go error chain.
func userMessage(err error) string {
	var remoteErr *process.RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Message
	}
	if strings.Contains(err.Error(), "unreachable") {
		return "The processing service is unavailable. Please try again."
	}
	return err.Error()
}

// defaultFilename derives a download name when the processor doesn't
// suggest one.
func defaultFilename(tool, contentType string) string {
	ext := ".bin"
	switch {
	case strings.HasPrefix(contentType, "application/pdf"):
		ext = ".pdf"
	case strings.HasPrefix(contentType, "application/zip"):
		ext = ".zip"
	case strings.HasPrefix(contentType, "image/png"):
		ext = ".png"
	case strings.HasPrefix(contentType, "image/jpeg"):
		ext = ".jpg"
	case strings.HasPrefix(contentType, "text/"):
		ext = ".txt"
	}
	return tool + ext
}
