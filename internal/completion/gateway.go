// Package completion wraps the external text-completion provider behind a
// small gateway. The provider speaks the OpenAI chat-completions wire format;
// Groq is the default endpoint.
package completion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/midas-health/midas/internal/log"
)

// ErrGenerationFailed is returned for any provider failure. Provider-internal
// detail is logged, never surfaced to callers. The gateway does not retry;
// callers may.
var ErrGenerationFailed = errors.New("failed to process chat request")

// Generation defaults matching the provider contract.
const (
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultTimeout     = 60 * time.Second
)

// chatStream is the subset of the provider's stream handle the gateway reads.
type chatStream interface {
	Recv() (openai.ChatCompletionStreamResponse, error)
	Close() error
}

// chatClient is the consumer-defined slice of the provider client, mockable in
// tests.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (chatStream, error)
}

// openaiClient adapts *openai.Client to chatClient so the concrete stream
// handle is returned as the chatStream interface.
type openaiClient struct {
	c *openai.Client
}

func (o openaiClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return o.c.CreateChatCompletion(ctx, req)
}

func (o openaiClient) CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (chatStream, error) {
	return o.c.CreateChatCompletionStream(ctx, req)
}

// Config holds provider settings.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// Gateway sends assembled prompts to the completion provider.
//
// Gateway is stateless and safe for concurrent use.
type Gateway struct {
	client      chatClient
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	logger      log.Logger
}

// New creates a gateway for the configured provider.
func New(cfg Config, logger log.Logger) *Gateway {
	if logger == nil {
		logger = log.New(log.Config{})
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return newWithClient(openaiClient{c: openai.NewClientWithConfig(clientCfg)}, cfg, logger)
}

func newWithClient(client chatClient, cfg Config, logger log.Logger) *Gateway {
	g := &Gateway{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
	if g.maxTokens <= 0 {
		g.maxTokens = DefaultMaxTokens
	}
	if g.temperature <= 0 {
		g.temperature = DefaultTemperature
	}
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}
	return g
}

// Complete sends the system and user prompts to the provider and returns the
// generated text. The call is bounded by the configured timeout; expiry is
// reported as the generic generation failure and may be retried by the caller.
func (g *Gateway) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, g.request(system, user, false))
	if err != nil {
		g.logger.Error("completion request failed", "model", g.model, "error", err)
		return "", ErrGenerationFailed
	}
	if len(resp.Choices) == 0 {
		g.logger.Error("completion returned no choices", "model", g.model)
		return "", ErrGenerationFailed
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream sends the prompts and forwards each text delta to onDelta as it
// arrives, returning the folded final text. Delta accumulation is kept here so
// prompt assembly stays independent of streaming mechanics. A non-nil error
// from onDelta (typically a closed client connection) aborts the stream.
func (g *Gateway) Stream(ctx context.Context, system, user string, onDelta func(delta string) error) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	stream, err := g.client.CreateChatCompletionStream(ctx, g.request(system, user, true))
	if err != nil {
		g.logger.Error("completion stream open failed", "model", g.model, "error", err)
		return "", ErrGenerationFailed
	}
	return g.fold(ctx, stream, onDelta)
}

// fold drains a provider stream into a single string.
func (g *Gateway) fold(ctx context.Context, stream chatStream, onDelta func(delta string) error) (string, error) {
	defer func() {
		if err := stream.Close(); err != nil {
			g.logger.Debug("closing completion stream", "error", err)
		}
	}()

	var full strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return full.String(), nil
		}
		if err != nil {
			if ctx.Err() != nil {
				// Caller aborted; partial output is discarded.
				return "", fmt.Errorf("%w", ErrGenerationFailed)
			}
			g.logger.Error("completion stream failed", "model", g.model, "error", err)
			return "", ErrGenerationFailed
		}

		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				return "", fmt.Errorf("forwarding stream delta: %w", err)
			}
		}
	}
}

func (g *Gateway) request(system, user string, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		Stream:      stream,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}
}
