package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/midas-health/midas/internal/audit"
	"github.com/midas-health/midas/internal/document"
	"github.com/midas-health/midas/internal/log"
)

// defaultListLimit bounds document listings.
const defaultListLimit = 100

// allowedUploadExtensions lists the plain-text formats accepted for ingestion.
var allowedUploadExtensions = map[string]struct{}{
	".txt": {},
	".md":  {},
	".csv": {},
}

// DocumentStore is the slice of the document layer the handler depends on.
type DocumentStore interface {
	Create(ctx context.Context, up document.Upload) (document.Document, error)
	Get(ctx context.Context, id uuid.UUID) (document.Document, error)
	List(ctx context.Context, limit int) ([]document.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// documentHandler handles document upload, listing, and deletion.
type documentHandler struct {
	store    DocumentStore
	recorder *audit.Recorder
	maxBytes int64
	logger   log.Logger
}

// documentPayload is the client-facing document shape.
type documentPayload struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	UploadedAt time.Time `json:"uploadedAt"`
	FileType   string    `json:"fileType"`
	Size       int64     `json:"size"`
	Chunks     int       `json:"chunks"`
}

func toDocumentPayload(doc document.Document) documentPayload {
	return documentPayload{
		ID:         doc.ID.String(),
		Title:      doc.Title,
		Content:    doc.Content,
		Category:   doc.Category,
		UploadedAt: doc.UploadedAt,
		FileType:   doc.FileType,
		Size:       doc.FileSize,
		Chunks:     doc.ChunkCount,
	}
}

// upload handles POST /api/v1/documents (multipart form: file, category?).
func (h *documentHandler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form", h.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required", h.logger)
		return
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedUploadExtensions[ext]; !ok {
		writeError(w, http.StatusBadRequest, "Unsupported file type", h.logger)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read file", h.logger)
		return
	}
	if len(content) == 0 {
		writeError(w, http.StatusBadRequest, "File is empty", h.logger)
		return
	}

	doc, err := h.store.Create(r.Context(), document.Upload{
		Filename: header.Filename,
		Content:  string(content),
		Category: r.FormValue("category"),
		FileType: strings.TrimPrefix(ext, "."),
		FileSize: header.Size,
	})
	if err != nil {
		h.logger.Error("document upload failed", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store document", h.logger)
		return
	}

	h.recorder.Record("", audit.ActionDocumentUpload, "", map[string]any{
		"document_id": doc.ID.String(),
		"title":       doc.Title,
		"size":        doc.FileSize,
		"chunks":      doc.ChunkCount,
	})
	writeJSON(w, http.StatusCreated, map[string]documentPayload{"document": toDocumentPayload(doc)}, h.logger)
}

// list handles GET /api/v1/documents.
func (h *documentHandler) list(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.List(r.Context(), defaultListLimit)
	if err != nil {
		h.logger.Error("document listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list documents", h.logger)
		return
	}

	payloads := make([]documentPayload, 0, len(docs))
	for _, doc := range docs {
		payloads = append(payloads, toDocumentPayload(doc))
	}
	writeJSON(w, http.StatusOK, map[string][]documentPayload{"documents": payloads}, h.logger)
}

// get handles GET /api/v1/documents/{id}.
func (h *documentHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid document ID", h.logger)
		return
	}

	doc, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Document not found", h.logger)
			return
		}
		h.logger.Error("document fetch failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to get document", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]documentPayload{"document": toDocumentPayload(doc)}, h.logger)
}

// delete handles DELETE /api/v1/documents/{id}.
func (h *documentHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid document ID", h.logger)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, document.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Document not found", h.logger)
			return
		}
		h.logger.Error("document deletion failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete document", h.logger)
		return
	}

	h.recorder.Record("", audit.ActionDocumentDelete, "", map[string]any{"document_id": id.String()})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true}, h.logger)
}
