// Package chat orchestrates a chat request: retrieval, prompt assembly, and
// the completion call.
package chat

import (
	"strings"
	"time"

	"github.com/midas-health/midas/internal/retrieval"
)

// Turn is one dialogue turn supplied by the caller. The service keeps no
// long-term conversation state; history arrives with every request.
type Turn struct {
	Role      string // "user" or "assistant"
	Content   string
	Timestamp time.Time
}

// RoleUser and RoleAssistant are the accepted turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// maxHistoryTurns bounds how much supplied history enters the prompt. Older
// turns are silently dropped.
const maxHistoryTurns = 3

// preamble fixes the assistant persona: domain scope, tone, and the safety
// rails (recommend professional consultation, never issue definitive
// diagnoses).
const preamble = `You are MIDAS AI Assistant, a specialized medical AI focused on skin cancer detection and dermatological health. You have access to a comprehensive knowledge base about skin cancer, dermatology, and the MIDAS application.

Guidelines:
- Provide accurate, helpful information about skin cancer, dermatology, and the MIDAS system
- Always recommend professional medical consultation for concerning symptoms
- Be empathetic and supportive when discussing health concerns
- Use the retrieved knowledge to provide detailed, evidence-based responses
- If asked about features outside your knowledge base, be honest about limitations
- Never provide definitive medical diagnoses - always emphasize the need for professional evaluation`

// BuildSystemPrompt assembles the system prompt from the fixed preamble, the
// retrieved knowledge block, and the bounded conversation history. The
// knowledge section is omitted entirely when there are no results. Only the
// last maxHistoryTurns turns are serialized, in chronological order.
func BuildSystemPrompt(results []retrieval.Result, history []Turn) string {
	var b strings.Builder
	b.WriteString(preamble)
	b.WriteString("\n\n")

	if len(results) > 0 {
		b.WriteString("\n\nRelevant Information:\n")
		for i, r := range results {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("- ")
			b.WriteString(r.Entry.Title)
			b.WriteString(": ")
			b.WriteString(r.Entry.Content)
		}
	}

	b.WriteString("\n\nPrevious conversation:\n")
	b.WriteString(serializeHistory(history))
	b.WriteString("\n\nRespond helpfully and professionally to the user's question.")

	return b.String()
}

// serializeHistory renders the last maxHistoryTurns turns as alternating
// "User:" / "Assistant:" lines.
func serializeHistory(history []Turn) string {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	lines := make([]string, 0, len(history))
	for _, t := range history {
		label := "Assistant"
		if t.Role == RoleUser {
			label = "User"
		}
		lines = append(lines, label+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}
