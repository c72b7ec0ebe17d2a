package api

import (
	"context"
	"net/http"

	"github.com/midas-health/midas/internal/log"
)

// dbPinger is the slice of the connection pool the readiness probe depends on.
type dbPinger interface {
	Ping(ctx context.Context) error
}

// health is a liveness probe for Docker/Kubernetes.
// Returns 200 OK if the process is alive.
func health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readiness returns a readiness probe handler aggregating dependency health:
// the database must answer a ping, and the inference service, when configured,
// must report healthy with its model loaded.
func readiness(db dbPinger, analyzer Analyzer, logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			http.Error(w, "database pool not configured", http.StatusServiceUnavailable)
			return
		}
		if err := db.Ping(r.Context()); err != nil {
			logger.Error("readiness check failed", "error", err)
			http.Error(w, "database not ready", http.StatusServiceUnavailable)
			return
		}
		if analyzer != nil && !analyzer.Healthy(r.Context()) {
			logger.Warn("readiness check failed", "dependency", "inference")
			http.Error(w, "inference service not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}
