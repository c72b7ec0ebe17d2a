package document

import (
	"strings"
	"testing"
)

func TestSplitChunks_SmallTextSingleChunk(t *testing.T) {
	chunks := SplitChunks("First sentence. Second sentence! Third sentence?", 1000)

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	want := "First sentence.  Second sentence.  Third sentence"
	// Fragments keep their leading space from the source text; the joiner adds ". ".
	if chunks[0] != want {
		t.Errorf("chunk = %q, want %q", chunks[0], want)
	}
}

func TestSplitChunks_GreedyFill(t *testing.T) {
	// 25 sentences of 100 characters each (99 body + terminator) = 2,500 chars.
	sentence := strings.Repeat("a", 99) + "."
	text := strings.Repeat(sentence, 25)

	chunks := SplitChunks(text, 1000)

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if i < len(chunks)-1 && len(c) > 1000 {
			t.Errorf("chunk %d length %d exceeds max", i, len(c))
		}
	}
}

func TestSplitChunks_CountsCharactersNotBytes(t *testing.T) {
	// Same shape as the greedy-fill case but in CJK: 25 sentences of 100
	// characters (300 bytes) each. Chunk packing must match the ASCII result;
	// byte-based accounting would flush after every third sentence.
	sentence := strings.Repeat("皮", 99) + "."
	text := strings.Repeat(sentence, 25)

	chunks := SplitChunks(text, 1000)

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
}

func TestSplitChunks_ReconstructsSentences(t *testing.T) {
	text := "Melanoma is dangerous. Early detection saves lives. See a dermatologist yearly."

	chunks := SplitChunks(text, 40)

	joined := strings.Join(chunks, ". ")
	for _, want := range []string{"Melanoma is dangerous", "Early detection saves lives", "See a dermatologist yearly"} {
		if !strings.Contains(joined, want) {
			t.Errorf("reconstruction missing %q in %q", want, joined)
		}
	}
}

func TestSplitChunks_OversizedSentenceKeptWhole(t *testing.T) {
	long := strings.Repeat("x", 500)
	chunks := SplitChunks("Short one. "+long+". Another short.", 100)

	found := false
	for _, c := range chunks {
		if strings.Contains(c, long) {
			found = true
		}
	}
	if !found {
		t.Fatal("oversized sentence was split or dropped")
	}
}

func TestSplitChunks_EmptyAndWhitespaceInput(t *testing.T) {
	if got := SplitChunks("", 1000); len(got) != 0 {
		t.Errorf("empty input produced %d chunks", len(got))
	}
	if got := SplitChunks("   \n\t  ", 1000); len(got) != 0 {
		t.Errorf("whitespace input produced %d chunks", len(got))
	}
	if got := SplitChunks("...!!!???", 1000); len(got) != 0 {
		t.Errorf("punctuation-only input produced %d chunks", len(got))
	}
}

func TestSplitChunks_RepeatedTerminators(t *testing.T) {
	chunks := SplitChunks("Really?! Are you sure... Yes!!", 1000)

	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if strings.Contains(chunks[0], "!") || strings.Contains(chunks[0], "?") {
		t.Errorf("terminators leaked into chunk: %q", chunks[0])
	}
}

func TestSplitChunks_Deterministic(t *testing.T) {
	text := strings.Repeat("Sentence body here. ", 200)

	a := SplitChunks(text, 300)
	b := SplitChunks(text, 300)

	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitChunks_ZeroMaxSizeUsesDefault(t *testing.T) {
	text := strings.Repeat("word. ", 300) // ~1,800 chars

	chunks := SplitChunks(text, 0)

	if len(chunks) < 2 {
		t.Errorf("expected default max size %d to split input, got %d chunks", DefaultMaxChunkSize, len(chunks))
	}
}
