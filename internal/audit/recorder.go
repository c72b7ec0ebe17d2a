// Package audit records clinically relevant events (chat questions, document
// uploads, analysis requests) for later review. The recorder is an injected
// dependency, not a process-wide singleton, so tests and multiple servers can
// hold independent trails.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/midas-health/midas/internal/log"
)

// Action identifies the kind of event being recorded.
type Action string

const (
	ActionChat           Action = "chat"
	ActionDocumentUpload Action = "document_upload"
	ActionDocumentDelete Action = "document_delete"
	ActionAnalysis       Action = "analysis"
)

// Event is one recorded audit entry.
type Event struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	UserID    string         `json:"userId,omitempty"`
	Action    Action         `json:"action"`
	RiskLevel string         `json:"riskLevel,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// Filter narrows List results. Zero-valued fields match everything.
type Filter struct {
	UserID    string
	Action    Action
	RiskLevel string
	Since     time.Time
	Until     time.Time
}

func (f Filter) matches(e Event) bool {
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.RiskLevel != "" && e.RiskLevel != f.RiskLevel {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && e.Timestamp.After(f.Until) {
		return false
	}
	return true
}

// DefaultCapacity bounds the in-memory trail when none is given.
const DefaultCapacity = 1000

// Recorder keeps a bounded in-memory audit trail and mirrors every event to
// the structured log. When the buffer is full the oldest events are dropped.
type Recorder struct {
	mu       sync.Mutex
	events   []Event
	capacity int
	logger   log.Logger
	now      func() time.Time
}

// NewRecorder creates a recorder holding at most capacity events.
// capacity <= 0 selects DefaultCapacity.
func NewRecorder(capacity int, logger log.Logger) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = log.New(log.Config{})
	}
	return &Recorder{
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

// Record stores an event and writes it to the log.
func (r *Recorder) Record(userID string, action Action, riskLevel string, details map[string]any) Event {
	e := Event{
		ID:        uuid.New().String(),
		Timestamp: r.now(),
		UserID:    userID,
		Action:    action,
		RiskLevel: riskLevel,
		Details:   details,
	}

	r.mu.Lock()
	r.events = append(r.events, e)
	if len(r.events) > r.capacity {
		r.events = r.events[len(r.events)-r.capacity:]
	}
	r.mu.Unlock()

	r.logger.Info("audit event",
		"audit_id", e.ID,
		"action", string(e.Action),
		"user_id", e.UserID,
		"risk_level", e.RiskLevel,
	)
	return e
}

// List returns events matching the filter, newest first.
func (r *Recorder) List(f Filter) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]Event, 0, len(r.events))
	for i := len(r.events) - 1; i >= 0; i-- {
		if f.matches(r.events[i]) {
			matched = append(matched, r.events[i])
		}
	}
	return matched
}

// Len reports the number of retained events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
