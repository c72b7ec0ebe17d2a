// Package api exposes the MIDAS assistant over a JSON HTTP API: chat
// (synchronous and SSE), document management, image analysis proxying, and the
// audit trail.
package api

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/midas-health/midas/internal/audit"
	"github.com/midas-health/midas/internal/log"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger         log.Logger
	Chat           ChatService     // Required
	Documents      DocumentStore   // Required
	Analyzer       Analyzer        // Optional: nil disables the analysis endpoint
	Audit          *audit.Recorder // Required
	Pool           *pgxpool.Pool   // Optional: nil disables pool stats in /ready
	CORSOrigins    []string        // Allowed origins for CORS
	TrustProxy     bool            // Trust X-Real-IP/X-Forwarded-For headers
	RateBurst      int             // Rate limiter burst size per IP (0 = default 60)
	MaxUploadBytes int64           // Document upload size cap (0 = 10MB)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Chat == nil {
		return nil, errors.New("chat service is required")
	}
	if cfg.Documents == nil {
		return nil, errors.New("document store is required")
	}
	if cfg.Audit == nil {
		return nil, errors.New("audit recorder is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(log.Config{})
	}

	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}

	ch := &chatHandler{svc: cfg.Chat, recorder: cfg.Audit, logger: logger}
	dh := &documentHandler{store: cfg.Documents, recorder: cfg.Audit, maxBytes: maxUpload, logger: logger}
	ah := &auditHandler{recorder: cfg.Audit, logger: logger}

	mux := http.NewServeMux()

	// Chat
	mux.HandleFunc("POST /api/v1/chat", ch.send)
	mux.HandleFunc("POST /api/v1/chat/stream", ch.stream)

	// Documents
	mux.HandleFunc("POST /api/v1/documents", dh.upload)
	mux.HandleFunc("GET /api/v1/documents", dh.list)
	mux.HandleFunc("GET /api/v1/documents/{id}", dh.get)
	mux.HandleFunc("DELETE /api/v1/documents/{id}", dh.delete)

	// Image analysis (optional — only registered if an analyzer is provided)
	if cfg.Analyzer != nil {
		an := &analysisHandler{analyzer: cfg.Analyzer, recorder: cfg.Audit, logger: logger}
		mux.HandleFunc("POST /api/v1/analysis", an.analyze)
	}

	// Audit trail
	mux.HandleFunc("GET /api/v1/audit", ah.list)

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in log
	// attributes. CORS must be before RateLimit so preflight OPTIONS gets
	// proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecurityHeaders(w)
		handler.ServeHTTP(w, r)
	})

	// Top-level mux separates health probes from the middleware stack.
	// A nil *pgxpool.Pool must stay a nil dbPinger, not a typed nil interface.
	var db dbPinger
	if cfg.Pool != nil {
		db = cfg.Pool
	}
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("GET /ready", readiness(db, cfg.Analyzer, logger))
	topMux.Handle("/", final)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
