// Package process talks to the remote PDF processing service.
//
// The processing endpoints (/api/pdf/*, /api/organize-pdf-pages, ...) are an
// opaque collaborator: we serialize the session's ordered files plus a
// settings object into a multipart POST, and we get back either a binary
// result (application/pdf, image/*, application/zip) or a JSON error
// payload `{ "error": "..." }` with a non-2xx status. This package is a
// packager, not a format designer — it owns no wire format of its own.
package process

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxErrorBody caps how much of an upstream error response we read.
const maxErrorBody = 64 << 10 // 64KB

// File is one binary part of the payload, in processing order.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Request describes one processing call.
type Request struct {
	// Endpoint path on the processor, e.g. "/api/pdf/from-images".
	Endpoint string
	// Files are appended as "files" parts in order; order is meaningful.
	Files []File
	// Settings is serialized as a JSON "settings" field.
	Settings map[string]any
}

// Result is a successful binary response.
type Result struct {
	Data        []byte
	ContentType string
	// Filename from Content-Disposition, when the processor suggests one.
	Filename string
}

// RemoteError is a structured failure from the processing service. It is a
// user-facing condition — the session returns to Ready, nothing is lost.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("processing service returned %d: %s", e.Status, e.Message)
}

// Client calls the processing service with request pacing.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a client. rps/burst pace our calls so a burst of tool pages
// can't stampede the processor.
func New(baseURL string, timeout time.Duration, rps float64, burst int) *Client {
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Go Pattern: Always configure timeouts on HTTP clients.
		// The default http.Client has NO timeout — requests can hang forever!
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Process sends the request and returns the binary result.
func (c *Client) Process(ctx context.Context, req Request) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	body, contentType, err := buildPayload(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+req.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build processor request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("processing service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read processing result: %w", err)
	}

	return &Result{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    dispositionFilename(resp.Header.Get("Content-Disposition")),
	}, nil
}

// buildPayload serializes the files (in order) and settings into a
// multipart body.
func buildPayload(req Request) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range req.Files {
		part, err := w.CreatePart(filePartHeader(f))
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write file part: %w", err)
		}
	}

	settings := req.Settings
	if settings == nil {
		settings = map[string]any{}
	}
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize settings: %w", err)
	}
	if err := w.WriteField("settings", string(settingsJSON)); err != nil {
		return nil, "", fmt.Errorf("failed to write settings field: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize payload: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// filePartHeader builds a part header that carries the file's real content
// type instead of multipart's default application/octet-stream.
func filePartHeader(f File) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="files"; filename="%s"`, escapeQuotes(f.Name)))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	return h
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}

// decodeError turns a non-2xx response into a RemoteError, preferring the
// structured `{ "error": ... }` body and falling back to the HTTP status.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &RemoteError{Status: resp.StatusCode, Message: payload.Error}
	}
	return &RemoteError{
		Status:  resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
	}
}

// dispositionFilename pulls the suggested filename from a
// Content-Disposition header, or "" when absent or malformed.
func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
