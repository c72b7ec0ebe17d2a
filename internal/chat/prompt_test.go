package chat

import (
	"strings"
	"testing"

	"github.com/midas-health/midas/internal/knowledge"
	"github.com/midas-health/midas/internal/retrieval"
)

func someResults() []retrieval.Result {
	return []retrieval.Result{
		{
			Entry: knowledge.Entry{
				Title:    "Melanoma Detection",
				Content:  "The ABCDE rule helps identify suspicious moles.",
				Category: knowledge.CategoryMedical,
				Source:   knowledge.SourceStatic,
			},
			Relevance: 0.6,
		},
		{
			Entry: knowledge.Entry{
				Title:    "Clinic Notes",
				Content:  "Uploaded chunk content.",
				Category: knowledge.CategoryMedical,
				Source:   knowledge.SourceUploaded,
			},
			Relevance: 0.8,
		},
	}
}

func TestBuildSystemPrompt_SafetyInstructions(t *testing.T) {
	prompt := BuildSystemPrompt(nil, nil)

	if !strings.Contains(prompt, "professional medical consultation") {
		t.Error("preamble missing professional-consultation instruction")
	}
	if !strings.Contains(prompt, "Never provide definitive medical diagnoses") {
		t.Error("preamble missing no-definitive-diagnosis instruction")
	}
}

func TestBuildSystemPrompt_KnowledgeBlock(t *testing.T) {
	prompt := BuildSystemPrompt(someResults(), nil)

	if !strings.Contains(prompt, "Relevant Information:") {
		t.Error("knowledge header missing")
	}
	if !strings.Contains(prompt, "- Melanoma Detection: The ABCDE rule helps identify suspicious moles.") {
		t.Errorf("knowledge bullet malformed:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- Clinic Notes: Uploaded chunk content.") {
		t.Error("second bullet missing")
	}
}

func TestBuildSystemPrompt_OmitsEmptyKnowledgeSection(t *testing.T) {
	prompt := BuildSystemPrompt(nil, nil)

	if strings.Contains(prompt, "Relevant Information:") {
		t.Error("empty knowledge header emitted")
	}
}

func TestBuildSystemPrompt_HistoryBounded(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "turn one"},
		{Role: RoleAssistant, Content: "turn two"},
		{Role: RoleUser, Content: "turn three"},
		{Role: RoleAssistant, Content: "turn four"},
		{Role: RoleUser, Content: "turn five"},
	}

	prompt := BuildSystemPrompt(nil, history)

	for _, dropped := range []string{"turn one", "turn two"} {
		if strings.Contains(prompt, dropped) {
			t.Errorf("prompt contains dropped turn %q", dropped)
		}
	}
	for _, kept := range []string{"turn three", "turn four", "turn five"} {
		if !strings.Contains(prompt, kept) {
			t.Errorf("prompt missing kept turn %q", kept)
		}
	}
}

func TestBuildSystemPrompt_HistoryChronologicalWithRoles(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "is this mole dangerous"},
		{Role: RoleAssistant, Content: "I cannot diagnose, but watch for ABCDE signs"},
	}

	prompt := BuildSystemPrompt(nil, history)

	userIdx := strings.Index(prompt, "User: is this mole dangerous")
	asstIdx := strings.Index(prompt, "Assistant: I cannot diagnose, but watch for ABCDE signs")
	if userIdx == -1 || asstIdx == -1 {
		t.Fatalf("history lines missing:\n%s", prompt)
	}
	if userIdx > asstIdx {
		t.Error("history not in chronological order")
	}
}

func TestSerializeHistory_Empty(t *testing.T) {
	if got := serializeHistory(nil); got != "" {
		t.Errorf("serializeHistory(nil) = %q", got)
	}
}
