package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresQuerier implements Querier on a pgx connection pool.
type PostgresQuerier struct {
	pool *pgxpool.Pool
}

// NewPostgresQuerier wraps an existing pool. The pool's lifecycle is managed
// by the caller.
func NewPostgresQuerier(pool *pgxpool.Pool) *PostgresQuerier {
	return &PostgresQuerier{pool: pool}
}

// InsertDocument writes a document row.
func (q *PostgresQuerier) InsertDocument(ctx context.Context, doc Document) error {
	_, err := q.pool.Exec(ctx, `
		INSERT INTO documents (id, title, content, full_content, category, file_type, file_size, chunk_count, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		doc.ID, doc.Title, doc.Content, doc.FullContent, doc.Category,
		doc.FileType, doc.FileSize, doc.ChunkCount, doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// InsertChunks writes chunk rows in a single batch.
func (q *PostgresQuerier) InsertChunks(ctx context.Context, chunks []Chunk) error {
	batch := &pgx.Batch{}
	for _, c := range chunks {
		batch.Queue(`
			INSERT INTO document_chunks (document_id, content, chunk_index)
			VALUES ($1, $2, $3)`,
			c.DocumentID, c.Content, c.Index,
		)
	}

	results := q.pool.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	for range chunks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert chunk: %w", err)
		}
	}
	return nil
}

// SearchChunks performs a case-insensitive substring search over chunk content.
// The LIKE pattern metacharacters in the query are escaped so user input is
// matched literally.
func (q *PostgresQuerier) SearchChunks(ctx context.Context, query string, limit int) ([]ChunkMatch, error) {
	pattern := "%" + escapeLike(query) + "%"

	rows, err := q.pool.Query(ctx, `
		SELECT dc.content, d.title, d.category
		FROM document_chunks dc
		JOIN documents d ON d.id = dc.document_id
		WHERE dc.content ILIKE $1 ESCAPE '\'
		LIMIT $2`,
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	defer rows.Close()

	var matches []ChunkMatch
	for rows.Next() {
		var m ChunkMatch
		if err := rows.Scan(&m.Content, &m.DocumentTitle, &m.DocumentCategory); err != nil {
			return nil, fmt.Errorf("scan chunk match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunk matches: %w", err)
	}
	return matches, nil
}

// GetDocument returns a document row by ID.
func (q *PostgresQuerier) GetDocument(ctx context.Context, id uuid.UUID) (Document, error) {
	var doc Document
	err := q.pool.QueryRow(ctx, `
		SELECT id, title, content, full_content, category, file_type, file_size, chunk_count, uploaded_at
		FROM documents WHERE id = $1`,
		id,
	).Scan(&doc.ID, &doc.Title, &doc.Content, &doc.FullContent, &doc.Category,
		&doc.FileType, &doc.FileSize, &doc.ChunkCount, &doc.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns documents ordered by upload time, newest first.
func (q *PostgresQuerier) ListDocuments(ctx context.Context, limit int) ([]Document, error) {
	rows, err := q.pool.Query(ctx, `
		SELECT id, title, content, full_content, category, file_type, file_size, chunk_count, uploaded_at
		FROM documents
		ORDER BY uploaded_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.FullContent, &doc.Category,
			&doc.FileType, &doc.FileSize, &doc.ChunkCount, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// DeleteChunksByDocument removes all chunks owned by a document.
func (q *PostgresQuerier) DeleteChunksByDocument(ctx context.Context, documentID uuid.UUID) error {
	if _, err := q.pool.Exec(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return nil
}

// DeleteDocument removes a document row. Returns ErrNotFound if no row
// matched.
func (q *PostgresQuerier) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	tag, err := q.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// escapeLike escapes LIKE pattern metacharacters with backslash.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
