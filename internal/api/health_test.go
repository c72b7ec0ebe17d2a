package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/midas-health/midas/internal/log"
)

// mockPinger implements dbPinger.
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

func probeReady(t *testing.T, db dbPinger, analyzer Analyzer) *httptest.ResponseRecorder {
	t.Helper()
	handler := readiness(db, analyzer, log.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestReadiness_NoPool(t *testing.T) {
	w := probeReady(t, nil, nil)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestReadiness_DatabaseDown(t *testing.T) {
	w := probeReady(t, &mockPinger{err: errors.New("connection refused")}, nil)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), "database not ready") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestReadiness_InferenceDown(t *testing.T) {
	w := probeReady(t, &mockPinger{}, &mockAnalyzer{unhealthy: true})

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
	if !strings.Contains(w.Body.String(), "inference") {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestReadiness_AllDependenciesUp(t *testing.T) {
	w := probeReady(t, &mockPinger{}, &mockAnalyzer{})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "ready" {
		t.Errorf("body = %q, want %q", w.Body.String(), "ready")
	}
}

func TestReadiness_NoAnalyzerStillReady(t *testing.T) {
	w := probeReady(t, &mockPinger{}, nil)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when no analyzer is configured", w.Code)
	}
}
