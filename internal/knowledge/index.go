package knowledge

import "strings"

// Index is the read-only static knowledge index. Construct once at startup and
// share freely; it is never mutated after NewIndex returns.
type Index struct {
	entries []Entry
}

// NewIndex builds an index over the given entries. Pass Catalog() for the
// built-in knowledge base; tests may supply their own entries.
func NewIndex(entries []Entry) *Index {
	owned := make([]Entry, len(entries))
	copy(owned, entries)
	return &Index{entries: owned}
}

// Len returns the number of indexed entries.
func (i *Index) Len() int {
	return len(i.entries)
}

// Score computes the keyword relevance of every indexed entry against query.
// All entries are returned, including zero scores; filtering is the caller's
// concern.
//
// The scheme is fixed for compatibility with stored client expectations:
// +3 for a title substring match, +2 for a content substring match, +1 per
// keyword where the keyword and query contain one another in either direction
// (case-insensitive). Relevance is the raw score divided by 10, unclamped, so
// keyword-rich entries can legitimately score above 1.0.
func (i *Index) Score(query string) []Scored {
	q := strings.ToLower(query)

	scored := make([]Scored, 0, len(i.entries))
	for _, e := range i.entries {
		raw := 0
		if strings.Contains(strings.ToLower(e.Title), q) {
			raw += 3
		}
		if strings.Contains(strings.ToLower(e.Content), q) {
			raw += 2
		}
		for _, kw := range e.Keywords {
			k := strings.ToLower(kw)
			if strings.Contains(q, k) || strings.Contains(k, q) {
				raw++
			}
		}
		scored = append(scored, Scored{Entry: e, Relevance: float64(raw) / 10})
	}
	return scored
}
