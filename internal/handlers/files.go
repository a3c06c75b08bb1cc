// files.go handles file upload endpoints.
//
// POST /api/v1/session/files — Upload one or more files into the session
//
// Two upload shapes, decided by the session's tool:
//   - files mode: every part named "files" is a candidate; the pipeline
//     sniffs, filters, and appends the survivors to the collection.
//   - pages mode: exactly one PDF whose pages become reorderable items.
package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/collection"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/ingest"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/middleware"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/models"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/services/pdfdoc"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/session"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/tools"
)

// probeWorkers bounds concurrent dimension probing per batch.
const probeWorkers = 4

// UploadFiles ingests uploaded files into the session.
// POST /api/v1/session/files
func (h *Handler) UploadFiles(c *gin.Context) {
	s := middleware.GetSession(c)

	tool, ok := h.Tools.Get(s.Tool)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "unknown_tool",
			Message: "The session's tool is no longer registered",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	// Limit request body size
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Cfg.MaxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: fmt.Sprintf("Expected a multipart upload with 'files' parts (max %d MB total)", h.Cfg.MaxUploadBytes>>20),
			Code:    http.StatusBadRequest,
		})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "No files provided. Upload files with the field name 'files'.",
			Code:    http.StatusBadRequest,
		})
		return
	}
	if tool.MaxFiles > 0 && len(files) > tool.MaxFiles {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "too_many_files",
			Message: fmt.Sprintf("This tool accepts at most %d files per upload", tool.MaxFiles),
			Code:    http.StatusBadRequest,
		})
		return
	}

	if tool.Mode == tools.ModePages {
		h.uploadDocument(c, s, tool.MaxFileBytes, files)
		return
	}

	candidates := make([]ingest.Candidate, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "read_error",
				Message: fmt.Sprintf("Failed to read uploaded file '%s'", fh.Filename),
				Code:    http.StatusBadRequest,
			})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "read_error",
				Message: fmt.Sprintf("Failed to read uploaded file '%s'", fh.Filename),
				Code:    http.StatusBadRequest,
			})
			return
		}
		candidates = append(candidates, ingest.Candidate{Name: fh.Filename, Data: data})
	}

	pipeline := ingest.New(tool.Accept, tool.MaxFileBytes, probeWorkers)
	res, err := s.Ingest(c.Request.Context(), pipeline, candidates)
	switch {
	case err == session.ErrProcessing:
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "processing_in_progress",
			Message: "A processing run is in progress. Wait for it to finish or reset the session.",
			Code:    http.StatusConflict,
		})
		return
	case err == ingest.ErrNoFilesAccepted:
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "no_files_accepted",
			Message: "None of the uploaded files are of an accepted type for this tool",
			Code:    http.StatusUnprocessableEntity,
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "ingest_failed",
			Message: "Failed to process the uploaded files",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	resp := models.IngestResponse{
		Accepted: len(res.Accepted),
		Rejected: res.Rejected,
	}
	if res.Rejected > 0 {
		resp.Message = fmt.Sprintf("%d file(s) were skipped (unsupported type or too large)", res.Rejected)
	}
	c.JSON(http.StatusOK, resp)
}

// uploadDocument handles the pages-mode shape: one PDF in, one item per page.
func (h *Handler) uploadDocument(c *gin.Context, s *session.Session, maxBytes int64, files []*multipart.FileHeader) {
	if len(files) != 1 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "This tool takes exactly one PDF document",
			Code:    http.StatusBadRequest,
		})
		return
	}
	fh := files[0]
	if maxBytes > 0 && fh.Size > maxBytes {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "file_too_large",
			Message: fmt.Sprintf("The document exceeds the %d MB limit for this tool", maxBytes>>20),
			Code:    http.StatusBadRequest,
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "read_error",
			Message: "Failed to read the uploaded document",
			Code:    http.StatusBadRequest,
		})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "read_error",
			Message: "Failed to read the uploaded document",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if !pdfdoc.Validate(data) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_pdf",
			Message: "The uploaded file does not appear to be a valid PDF",
			Code:    http.StatusBadRequest,
		})
		return
	}

	pageCount, err := pdfdoc.PageCount(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_pdf",
			Message: "Could not read the document's pages: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	pages := make([]*collection.Item, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		pages = append(pages, &collection.Item{
			ID:          uuid.New().String(),
			Name:        fmt.Sprintf("Page %d", i),
			ContentType: "application/pdf",
			Page:        i,
		})
	}

	if err := s.ReplaceWithDocument(fh.Filename, data, pages); err != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "processing_in_progress",
			Message: "A processing run is in progress. Wait for it to finish or reset the session.",
			Code:    http.StatusConflict,
		})
		return
	}

	c.JSON(http.StatusOK, models.IngestResponse{Accepted: pageCount})
}
