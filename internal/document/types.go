// Package document manages uploaded documents: sentence-respecting chunking,
// persistence, and chunk text search backing the retrieval pipeline.
package document

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded document's metadata and content. Content holds a
// preview (first kilobyte); FullContent holds the entire text.
type Document struct {
	ID          uuid.UUID
	Title       string
	Content     string
	FullContent string
	Category    string
	FileType    string
	FileSize    int64
	ChunkCount  int
	UploadedAt  time.Time
}

// Chunk is a bounded slice of a document's text. Chunks are exclusively owned
// by one document and ordered by Index; concatenating them in order
// approximately reconstructs the original text modulo sentence-boundary joins.
type Chunk struct {
	DocumentID uuid.UUID
	Content    string
	Index      int
}

// ChunkMatch is a chunk returned by text search, joined with its parent
// document's title and category. Match order is store-defined and must not be
// treated as ranked.
type ChunkMatch struct {
	Content          string
	DocumentTitle    string
	DocumentCategory string
}
