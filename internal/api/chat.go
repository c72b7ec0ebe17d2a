package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/midas-health/midas/internal/audit"
	"github.com/midas-health/midas/internal/chat"
	"github.com/midas-health/midas/internal/log"
)

// maxChatBody bounds chat request bodies.
const maxChatBody = 1 << 20 // 1MB

// ChatService is the slice of the chat layer the handler depends on.
type ChatService interface {
	Ask(ctx context.Context, message string, history []chat.Turn) (chat.Answer, error)
	AskStream(ctx context.Context, message string, history []chat.Turn, onDelta func(delta string) error) (chat.Answer, error)
}

// chatHandler handles chat endpoints.
//
// Endpoints:
//   - POST /api/v1/chat        - Synchronous chat (JSON request/response)
//   - POST /api/v1/chat/stream - Streaming chat (SSE)
type chatHandler struct {
	svc      ChatService
	recorder *audit.Recorder
	logger   log.Logger
}

// turnPayload is one history turn as supplied by the client.
type turnPayload struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// chatRequest is the request body for both chat endpoints.
type chatRequest struct {
	Message string        `json:"message"`
	History []turnPayload `json:"history"`
}

func (in chatRequest) turns() []chat.Turn {
	turns := make([]chat.Turn, 0, len(in.History))
	for _, t := range in.History {
		turns = append(turns, chat.Turn{Role: t.Role, Content: t.Content, Timestamp: t.Timestamp})
	}
	return turns
}

// send handles POST /api/v1/chat.
func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	var in chatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBody)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	answer, err := h.svc.Ask(r.Context(), in.Message, in.turns())
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			writeError(w, http.StatusBadRequest, "Message is required", h.logger)
			return
		}
		h.logger.Error("chat request failed", "error", err, "request_id", requestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, "Failed to process chat request", h.logger)
		return
	}

	h.recorder.Record("", audit.ActionChat, "", map[string]any{
		"message_length": len(in.Message),
		"sources":        len(answer.Sources),
	})
	writeJSON(w, http.StatusOK, answer, h.logger)
}

// SSE event types for chat streaming.
const (
	eventChunk = "chunk" // Partial response text
	eventDone  = "done"  // Stream completed successfully
	eventError = "error" // Error occurred during streaming
)

// chunkPayload is the SSE data payload for streaming text chunks.
type chunkPayload struct {
	Text string `json:"text"`
}

// donePayload is the SSE data payload when streaming completes successfully.
type donePayload struct {
	Response string           `json:"response"`
	Sources  []chat.SourceRef `json:"sources"`
}

// sseErrorPayload is the SSE data payload when an error occurs.
type sseErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// stream handles POST /api/v1/chat/stream, sending response deltas over SSE.
func (h *chatHandler) stream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	var in chatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBody)
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		_ = writeEvent(w, flusher, eventError, sseErrorPayload{Code: "INVALID_REQUEST", Message: "Invalid request body"})
		return
	}
	if in.Message == "" {
		_ = writeEvent(w, flusher, eventError, sseErrorPayload{Code: "MISSING_MESSAGE", Message: "Message is required"})
		return
	}

	ctx := r.Context()
	h.logger.Debug("SSE stream started", "request_id", requestIDFromContext(ctx))

	answer, err := h.svc.AskStream(ctx, in.Message, in.turns(), func(delta string) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		return writeEvent(w, flusher, eventChunk, chunkPayload{Text: delta})
	})
	if err != nil {
		if ctx.Err() != nil {
			h.logger.Info("client disconnected during stream", "request_id", requestIDFromContext(ctx))
			return
		}
		h.logger.Error("chat stream failed", "error", err)
		_ = writeEvent(w, flusher, eventError, sseErrorPayload{
			Code:    "GENERATION_FAILED",
			Message: "Failed to process chat request",
		})
		return
	}

	h.recorder.Record("", audit.ActionChat, "", map[string]any{
		"message_length": len(in.Message),
		"sources":        len(answer.Sources),
		"streamed":       true,
	})
	_ = writeEvent(w, flusher, eventDone, donePayload{Response: answer.Response, Sources: answer.Sources})
}

// writeEvent writes a single SSE event with JSON-encoded data.
// SSE format: "event: <type>\ndata: <json>\n\n"
func writeEvent[T any](w io.Writer, flusher http.Flusher, event string, data T) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData); err != nil {
		return fmt.Errorf("write event: %w", err)
	}

	flusher.Flush()
	return nil
}
