package api

import (
	"net/http"
	"time"

	"github.com/midas-health/midas/internal/audit"
	"github.com/midas-health/midas/internal/log"
)

// auditHandler exposes the audit trail for admin review.
type auditHandler struct {
	recorder *audit.Recorder
	logger   log.Logger
}

// list handles GET /api/v1/audit.
// Query parameters: userId, action, riskLevel, since, until (RFC 3339).
func (h *auditHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.Filter{
		UserID:    q.Get("userId"),
		Action:    audit.Action(q.Get("action")),
		RiskLevel: q.Get("riskLevel"),
	}

	if raw := q.Get("since"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid since timestamp", h.logger)
			return
		}
		filter.Since = ts
	}
	if raw := q.Get("until"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid until timestamp", h.logger)
			return
		}
		filter.Until = ts
	}

	events := h.recorder.List(filter)
	writeJSON(w, http.StatusOK, map[string][]audit.Event{"events": events}, h.logger)
}
