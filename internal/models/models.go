// Package models defines the data structures used throughout the application.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
// The `db` tags work with sqlx for database column mapping; the database
// package handles persistence — no ORM magic.
package models

import "time"

// RunStatus represents the processing state of a tool run.
// Go Pattern: We use string constants instead of enums (Go doesn't have
// enums) — a type alias plus named constants.
type RunStatus string

const (
	RunPending    RunStatus = "pending"
	RunProcessing RunStatus = "processing"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// ToolRun is the persisted record of one processing run: which tool ran,
// over which files, and what came out. The session itself is transient —
// this is the only durable trace, mirroring the "recent extractions" list
// the pages show.
type ToolRun struct {
	ID            string    `json:"id" db:"id"`
	SessionID     string    `json:"session_id" db:"session_id"`
	Tool          string    `json:"tool" db:"tool"`
	Status        RunStatus `json:"status" db:"status"`
	ItemCount     int       `json:"item_count" db:"item_count"`
	OriginalNames string    `json:"original_names" db:"original_names"` // comma-joined display names
	ArtifactName  string    `json:"artifact_name,omitempty" db:"artifact_name"`
	ArtifactSize  int64     `json:"artifact_size,omitempty" db:"artifact_size"`
	ContentType   string    `json:"content_type,omitempty" db:"content_type"`
	ErrorMessage  string    `json:"error_message,omitempty" db:"error_message"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// --- Request/Response DTOs ---
// Go Pattern: Separate structs for API input/output vs database models.

// CreateSessionRequest is the JSON body for POST /api/v1/sessions.
type CreateSessionRequest struct {
	Tool string `json:"tool" binding:"required"`
}

// CreateSessionResponse returns the new session plus its bearer token.
// The token is shown only here — the client must send it on every
// subsequent session call.
type CreateSessionResponse struct {
	SessionID string   `json:"session_id"`
	Tool      string   `json:"tool"`
	Token     string   `json:"token"`
	Accepts   []string `json:"accepts"`
	MaxFiles  int      `json:"max_files"`
}

// MoveItemRequest reorders via drag-and-drop index pairs.
type MoveItemRequest struct {
	FromIndex *int `json:"from_index" binding:"required"`
	ToIndex   *int `json:"to_index" binding:"required"`
}

// MoveAdjacentRequest nudges an item one position up or down.
type MoveAdjacentRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// ProcessRequest starts a run with optional tool settings.
type ProcessRequest struct {
	Settings map[string]any `json:"settings"`
}

// ProcessAccepted is the 202 response for a queued run.
type ProcessAccepted struct {
	RunID  string    `json:"run_id"`
	Status RunStatus `json:"status"`
}

// IngestResponse reports a combined batch outcome: what was accepted plus
// how many candidates were rejected — partial success is never silent.
type IngestResponse struct {
	Accepted int    `json:"accepted"`
	Rejected int    `json:"rejected"`
	Message  string `json:"message,omitempty"`
}

// TextMetricsRequest is the JSON body for POST /api/v1/text/metrics.
type TextMetricsRequest struct {
	// No binding:"required" — an empty string is a valid input that
	// yields all-zero counts.
	Text string `json:"text"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Database string `json:"database"`
	Workers  int    `json:"workers"`
	Sessions int    `json:"sessions"`
}
