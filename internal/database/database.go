// Package database handles PostgreSQL connections and queries.
//
// Go Pattern: We use the `sqlx` package which extends Go's standard
// `database/sql` with convenient features like scanning rows into structs.
// You write raw SQL — full control, no ORM. The pool inside database/sql is
// safe for concurrent use by every goroutine in the process.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver — the underscore import runs its init()

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/models"
)

// DB wraps the sqlx database connection with our application-specific methods.
// Go Pattern: Embedding (*sqlx.DB) gives us all of sqlx's methods
// automatically, plus we can add our own — composition over inheritance.
type DB struct {
	*sqlx.DB
}

// New creates a new database connection with connection pooling configured.
func New(databaseURL string) (*DB, error) {
	// sqlx.Connect both opens the connection and pings the database
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configured for serverless PostgreSQL, which closes idle connections
	// aggressively — recycle ours before it does.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Minute)
	db.SetConnMaxIdleTime(30 * time.Second)

	return &DB{db}, nil
}

// HealthCheck verifies the database connection is alive.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// --- Tool Run Operations ---

// CreateToolRun inserts a new run record and fills in its generated ID and
// timestamps.
func (db *DB) CreateToolRun(ctx context.Context, r *models.ToolRun) error {
	query := `
		INSERT INTO tool_runs (session_id, tool, status, item_count, original_names)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return db.QueryRowContext(ctx, query,
		r.SessionID, r.Tool, r.Status, r.ItemCount, r.OriginalNames,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

// GetToolRun retrieves a single run by ID.
func (db *DB) GetToolRun(ctx context.Context, id string) (*models.ToolRun, error) {
	var r models.ToolRun
	// GetContext scans directly into the struct using the db tags.
	err := db.GetContext(ctx, &r, `SELECT * FROM tool_runs WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("tool run not found: %w", err)
	}
	return &r, nil
}

// UpdateToolRun saves a run's outcome after processing.
func (db *DB) UpdateToolRun(ctx context.Context, r *models.ToolRun) error {
	query := `
		UPDATE tool_runs
		SET status = $2, artifact_name = $3, artifact_size = $4,
			content_type = $5, error_message = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return db.QueryRowContext(ctx, query,
		r.ID, r.Status, r.ArtifactName, r.ArtifactSize,
		r.ContentType, r.ErrorMessage,
	).Scan(&r.UpdatedAt)
}

// ListToolRuns returns recent runs, newest first, optionally filtered to one
// session.
func (db *DB) ListToolRuns(ctx context.Context, limit int, sessionID string) ([]models.ToolRun, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var runs []models.ToolRun
	var err error
	if sessionID != "" {
		err = db.SelectContext(ctx, &runs,
			`SELECT * FROM tool_runs WHERE session_id = $1 ORDER BY created_at DESC LIMIT $2`,
			sessionID, limit)
	} else {
		err = db.SelectContext(ctx, &runs,
			`SELECT * FROM tool_runs ORDER BY created_at DESC LIMIT $1`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tool runs: %w", err)
	}
	return runs, nil
}
