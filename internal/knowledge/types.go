// Package knowledge holds the static, curated knowledge base and its
// keyword-based relevance scoring.
//
// The catalog is immutable after construction and therefore safe for any
// number of concurrent readers. Uploaded-document knowledge lives in the
// document store; both are merged by the retrieval package.
package knowledge

// Category classifies a knowledge entry.
type Category string

const (
	CategoryMedical     Category = "medical"
	CategoryApplication Category = "application"
	CategoryGeneral     Category = "general"
)

// Source tags the provenance of a knowledge entry. It is set at creation and
// never mutated.
type Source string

const (
	// SourceStatic marks entries from the built-in catalog.
	SourceStatic Source = "static"

	// SourceUploaded marks entries backed by uploaded document chunks.
	SourceUploaded Source = "uploaded"
)

// Entry is a single knowledge item: a curated topic from the static catalog or
// a chunk of an uploaded document.
type Entry struct {
	Title    string
	Content  string
	Category Category
	Keywords []string // empty for uploaded entries
	Source   Source
}

// Scored pairs an entry with its per-query relevance. Relevance is transient
// scoring output, never persisted. Values are usually in [0,1] but keyword-rich
// matches may exceed 1.0; that headroom is intentional.
type Scored struct {
	Entry     Entry
	Relevance float64
}
