// Package retrieval merges and ranks knowledge from the static index and the
// uploaded-document chunk store.
package retrieval

import (
	"context"
	"sort"

	"github.com/midas-health/midas/internal/document"
	"github.com/midas-health/midas/internal/knowledge"
	"github.com/midas-health/midas/internal/log"
)

const (
	// DefaultTopK is the number of results returned when the caller does not
	// specify a cap.
	DefaultTopK = 3

	// UploadedRelevance is the fixed score assigned to chunk-store matches.
	// Uploaded documents are treated as uniformly high-confidence; this is a
	// deliberate simplification, not a learned score.
	UploadedRelevance = 0.8
)

// ChunkSearcher is the slice of the document store the retriever depends on.
type ChunkSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]document.ChunkMatch, error)
}

// Result is a ranked knowledge entry.
type Result struct {
	Entry     knowledge.Entry
	Relevance float64
}

// Retriever ranks knowledge entries from both sources against a query.
//
// Retriever is stateless apart from its read-only collaborators and is safe
// for concurrent use.
type Retriever struct {
	index  *knowledge.Index
	store  ChunkSearcher
	logger log.Logger
}

// New creates a retriever. store may be nil, in which case only the static
// index is consulted.
func New(index *knowledge.Index, store ChunkSearcher, logger log.Logger) *Retriever {
	if logger == nil {
		logger = log.New(log.Config{})
	}
	return &Retriever{index: index, store: store, logger: logger}
}

// Retrieve returns the top-k entries most relevant to query, merged across the
// static index and the chunk store. k <= 0 selects DefaultTopK.
//
// The static scan and the store query are independent and side-effect-free, so
// they run concurrently and are joined before ranking. Static entries are
// placed ahead of uploaded entries in the candidate list and the sort is
// stable, so a static entry wins any relevance tie deterministically.
//
// A chunk-store failure degrades to static-only results; Retrieve never fails
// the request on its own.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) []Result {
	if k <= 0 {
		k = DefaultTopK
	}

	type storeOutcome struct {
		matches []document.ChunkMatch
		err     error
	}
	storeCh := make(chan storeOutcome, 1)
	go func() {
		if r.store == nil {
			storeCh <- storeOutcome{}
			return
		}
		matches, err := r.store.Search(ctx, query, k)
		storeCh <- storeOutcome{matches: matches, err: err}
	}()

	var candidates []Result
	for _, s := range r.index.Score(query) {
		if s.Relevance > 0 {
			candidates = append(candidates, Result{Entry: s.Entry, Relevance: s.Relevance})
		}
	}

	outcome := <-storeCh
	if outcome.err != nil {
		r.logger.Warn("chunk store search failed, using static knowledge only",
			"query_len", len(query), "error", outcome.err)
	}
	for _, m := range outcome.matches {
		candidates = append(candidates, Result{
			Entry: knowledge.Entry{
				Title:    m.DocumentTitle,
				Content:  m.Content,
				Category: knowledge.Category(m.DocumentCategory),
				Source:   knowledge.SourceUploaded,
			},
			Relevance: UploadedRelevance,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Relevance > candidates[j].Relevance
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}
