package knowledge

import (
	"math"
	"testing"
)

func testEntries() []Entry {
	return []Entry{
		{
			Title:    "Melanoma Detection",
			Content:  "Melanoma is the most dangerous form of skin cancer.",
			Category: CategoryMedical,
			Keywords: []string{"melanoma", "ABCDE", "skin cancer"},
			Source:   SourceStatic,
		},
		{
			Title:    "Sunscreen Basics",
			Content:  "Use SPF 30+ sunscreen daily.",
			Category: CategoryMedical,
			Keywords: []string{"sunscreen", "SPF", "prevention"},
			Source:   SourceStatic,
		},
	}
}

func relevanceOf(t *testing.T, scored []Scored, title string) float64 {
	t.Helper()
	for _, s := range scored {
		if s.Entry.Title == title {
			return s.Relevance
		}
	}
	t.Fatalf("entry %q not found in scored results", title)
	return 0
}

func TestScore_TitleContentAndKeyword(t *testing.T) {
	idx := NewIndex(testEntries())

	scored := idx.Score("melanoma")

	// +3 title, +2 content, +1 keyword "melanoma" = 6 → 0.6
	got := relevanceOf(t, scored, "Melanoma Detection")
	if math.Abs(got-0.6) > 1e-9 {
		t.Errorf("relevance = %v, want 0.6", got)
	}
}

func TestScore_KeywordBidirectionalMatch(t *testing.T) {
	idx := NewIndex(testEntries())

	// Query contains the keyword ("melanoma") and a keyword contains nothing
	// else; "melanoma abcde" is not a substring of title or content.
	scored := idx.Score("melanoma ABCDE")

	got := relevanceOf(t, scored, "Melanoma Detection")
	// +1 keyword "melanoma", +1 keyword "ABCDE" = 2 → 0.2
	if math.Abs(got-0.2) > 1e-9 {
		t.Errorf("relevance = %v, want 0.2", got)
	}

	// Shorter-than-keyword queries match via keyword-contains-query.
	scored = idx.Score("sunscr")
	got = relevanceOf(t, scored, "Sunscreen Basics")
	if got <= 0 {
		t.Errorf("expected keyword substring match, got relevance %v", got)
	}
}

func TestScore_CaseInsensitive(t *testing.T) {
	idx := NewIndex(testEntries())

	lower := relevanceOf(t, idx.Score("spf"), "Sunscreen Basics")
	upper := relevanceOf(t, idx.Score("SPF"), "Sunscreen Basics")

	if lower != upper {
		t.Errorf("case sensitivity detected: %v vs %v", lower, upper)
	}
	if lower == 0 {
		t.Error("expected non-zero relevance for SPF query")
	}
}

func TestScore_ZeroScoreEntriesIncluded(t *testing.T) {
	idx := NewIndex(testEntries())

	scored := idx.Score("cardiology")

	if len(scored) != idx.Len() {
		t.Fatalf("Score returned %d results, want all %d entries", len(scored), idx.Len())
	}
	for _, s := range scored {
		if s.Relevance != 0 {
			t.Errorf("entry %q scored %v for unrelated query", s.Entry.Title, s.Relevance)
		}
	}
}

func TestScore_CanExceedOne(t *testing.T) {
	entry := Entry{
		Title:    "kw kw kw",
		Content:  "kw kw",
		Keywords: []string{"kw", "kw1", "kw2", "kw3", "kw4", "kw5", "kw6"},
		Source:   SourceStatic,
	}
	idx := NewIndex([]Entry{entry})

	// Title +3, content +2, every keyword contains "kw" → +7, raw 12 → 1.2.
	scored := idx.Score("kw")
	if scored[0].Relevance <= 1.0 {
		t.Errorf("relevance = %v, expected headroom above 1.0", scored[0].Relevance)
	}
}

func TestCatalog_RankedFirstForMelanomaQuery(t *testing.T) {
	idx := NewIndex(Catalog())

	scored := idx.Score("melanoma ABCDE")

	var best Scored
	for _, s := range scored {
		if s.Relevance > best.Relevance {
			best = s
		}
	}
	if best.Entry.Title != "Melanoma Detection and Classification" {
		t.Errorf("top entry = %q, want melanoma entry", best.Entry.Title)
	}
	if best.Relevance <= 0 {
		t.Errorf("top relevance = %v, want > 0", best.Relevance)
	}
}

func TestCatalog_Immutable(t *testing.T) {
	a := Catalog()
	a[0].Title = "mutated"

	b := Catalog()
	if b[0].Title == "mutated" {
		t.Error("Catalog returned shared backing storage")
	}
}
