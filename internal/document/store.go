package document

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/midas-health/midas/internal/log"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Querier defines the database operations the store depends on. The interface
// is consumer-defined so tests can substitute a mock for the pgx
// implementation.
type Querier interface {
	InsertDocument(ctx context.Context, doc Document) error
	InsertChunks(ctx context.Context, chunks []Chunk) error
	SearchChunks(ctx context.Context, query string, limit int) ([]ChunkMatch, error)
	GetDocument(ctx context.Context, id uuid.UUID) (Document, error)
	ListDocuments(ctx context.Context, limit int) ([]Document, error)
	DeleteChunksByDocument(ctx context.Context, documentID uuid.UUID) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

// Store persists uploaded documents and their chunks.
//
// Store is safe for concurrent use; all state lives in the backing database.
type Store struct {
	queries      Querier
	maxChunkSize int
	logger       log.Logger
}

// NewStore creates a document store. maxChunkSize <= 0 selects
// DefaultMaxChunkSize; a nil logger selects slog's default.
func NewStore(querier Querier, maxChunkSize int, logger log.Logger) *Store {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	if logger == nil {
		logger = log.New(log.Config{})
	}
	return &Store{
		queries:      querier,
		maxChunkSize: maxChunkSize,
		logger:       logger,
	}
}

// Upload describes a document to ingest.
type Upload struct {
	Filename string
	Content  string
	Category string
	FileType string
	FileSize int64
}

// previewLen bounds the stored content preview.
const previewLen = 1000

// Create splits the uploaded content into chunks and persists the document row
// followed by its chunk rows. The document title is the filename without its
// extension; category defaults to "medical".
//
// Chunk persistence is best effort: if chunk inserts fail after the document
// row is written, the failure is logged and the document row is kept. A crash
// between the two writes can leave a document with zero chunks; there is no
// compensating rollback.
func (s *Store) Create(ctx context.Context, up Upload) (Document, error) {
	category := up.Category
	if category == "" {
		category = "medical"
	}

	chunkTexts := SplitChunks(up.Content, s.maxChunkSize)

	doc := Document{
		ID:          uuid.New(),
		Title:       strings.TrimSuffix(up.Filename, filepath.Ext(up.Filename)),
		Content:     preview(up.Content),
		FullContent: up.Content,
		Category:    category,
		FileType:    up.FileType,
		FileSize:    up.FileSize,
		ChunkCount:  len(chunkTexts),
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.queries.InsertDocument(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("inserting document: %w", err)
	}

	chunks := make([]Chunk, len(chunkTexts))
	for i, text := range chunkTexts {
		chunks[i] = Chunk{DocumentID: doc.ID, Content: text, Index: i}
	}
	if len(chunks) > 0 {
		if err := s.queries.InsertChunks(ctx, chunks); err != nil {
			s.logger.Warn("chunk insert failed, document kept without chunks",
				"document_id", doc.ID, "chunks", len(chunks), "error", err)
		}
	}

	s.logger.Debug("document stored", "id", doc.ID, "title", doc.Title, "chunks", doc.ChunkCount)
	return doc, nil
}

// Search runs a substring text search over chunk content, returning at most
// limit matches joined with their parent document metadata. Result order is
// store-defined.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]ChunkMatch, error) {
	matches, err := s.queries.SearchChunks(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	return matches, nil
}

// Get returns a document by ID.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Document, error) {
	doc, err := s.queries.GetDocument(ctx, id)
	if err != nil {
		return Document{}, fmt.Errorf("getting document %s: %w", id, err)
	}
	return doc, nil
}

// List returns the most recently uploaded documents.
func (s *Store) List(ctx context.Context, limit int) ([]Document, error) {
	docs, err := s.queries.ListDocuments(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// Delete removes a document and all of its chunks. Chunks are deleted first;
// if that fails the document row is left untouched so chunk rows can never
// outlive their parent.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.queries.DeleteChunksByDocument(ctx, id); err != nil {
		return fmt.Errorf("deleting chunks for document %s: %w", id, err)
	}
	if err := s.queries.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}

	s.logger.Debug("document deleted", "id", id)
	return nil
}

func preview(content string) string {
	if len(content) > previewLen {
		return content[:previewLen]
	}
	return content
}
