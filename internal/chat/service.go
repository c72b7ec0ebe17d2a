package chat

import (
	"context"
	"errors"

	"github.com/midas-health/midas/internal/knowledge"
	"github.com/midas-health/midas/internal/log"
	"github.com/midas-health/midas/internal/retrieval"
)

// ErrEmptyMessage indicates a chat request with no message text.
var ErrEmptyMessage = errors.New("message is required")

// sourcePreviewLen bounds the content preview attached to each source.
const sourcePreviewLen = 200

// Retriever is the slice of the retrieval layer the service depends on.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) []retrieval.Result
}

// Generator is the slice of the completion gateway the service depends on.
type Generator interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Stream(ctx context.Context, system, user string, onDelta func(delta string) error) (string, error)
}

// SourceRef describes one knowledge source used for an answer. Content is
// truncated to a short preview for display.
type SourceRef struct {
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Category  knowledge.Category `json:"category"`
	Relevance float64            `json:"relevance"`
	Source    knowledge.Source   `json:"source"`
}

// Answer is the generated response with its source attributions.
type Answer struct {
	Response string      `json:"response"`
	Sources  []SourceRef `json:"sources"`
}

// Service handles one chat request end to end: retrieve, build the prompt,
// call the completion provider, attach sources. Each request is processed
// independently and statelessly.
type Service struct {
	retriever Retriever
	generator Generator
	topK      int
	logger    log.Logger
}

// NewService creates a chat service. topK <= 0 selects the retrieval default.
func NewService(retriever Retriever, generator Generator, topK int, logger log.Logger) *Service {
	if topK <= 0 {
		topK = retrieval.DefaultTopK
	}
	if logger == nil {
		logger = log.New(log.Config{})
	}
	return &Service{
		retriever: retriever,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

// Ask answers a chat message using retrieved knowledge and bounded history.
func (s *Service) Ask(ctx context.Context, message string, history []Turn) (Answer, error) {
	results, system, err := s.prepare(ctx, message, history)
	if err != nil {
		return Answer{}, err
	}

	text, err := s.generator.Complete(ctx, system, message)
	if err != nil {
		return Answer{}, err
	}

	return Answer{Response: text, Sources: sourceRefs(results)}, nil
}

// AskStream behaves like Ask but forwards response deltas to onDelta as they
// arrive. The returned Answer carries the folded full text.
func (s *Service) AskStream(ctx context.Context, message string, history []Turn, onDelta func(delta string) error) (Answer, error) {
	results, system, err := s.prepare(ctx, message, history)
	if err != nil {
		return Answer{}, err
	}

	text, err := s.generator.Stream(ctx, system, message, onDelta)
	if err != nil {
		return Answer{}, err
	}

	return Answer{Response: text, Sources: sourceRefs(results)}, nil
}

func (s *Service) prepare(ctx context.Context, message string, history []Turn) ([]retrieval.Result, string, error) {
	if message == "" {
		return nil, "", ErrEmptyMessage
	}

	results := s.retriever.Retrieve(ctx, message, s.topK)
	s.logger.Debug("knowledge retrieved", "results", len(results), "top_k", s.topK)

	return results, BuildSystemPrompt(results, history), nil
}

// sourceRefs converts retrieval results into display sources, truncating each
// content preview to sourcePreviewLen characters plus an ellipsis.
func sourceRefs(results []retrieval.Result) []SourceRef {
	refs := make([]SourceRef, 0, len(results))
	for _, r := range results {
		content := r.Entry.Content
		if len(content) > sourcePreviewLen {
			content = content[:sourcePreviewLen]
		}
		refs = append(refs, SourceRef{
			Title:     r.Entry.Title,
			Content:   content + "...",
			Category:  r.Entry.Category,
			Relevance: r.Relevance,
			Source:    r.Entry.Source,
		})
	}
	return refs
}
