package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/midas-health/midas/internal/inference"
)

func TestAnalysis_Analyze(t *testing.T) {
	analyzer := &mockAnalyzer{result: inference.Result{
		Success:           true,
		PrimaryPrediction: inference.Prediction{Class: "MEL", Description: "Melanoma", Confidence: 0.88},
		RiskLevel:         inference.RiskHigh,
	}}
	handler := newTestServer(t, ServerConfig{Analyzer: analyzer})

	body, contentType := multipartUpload(t, "lesion.jpg", "fake-image-bytes", "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var result inference.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if result.PrimaryPrediction.Class != "MEL" || result.RiskLevel != inference.RiskHigh {
		t.Errorf("result = %+v", result)
	}
}

func TestAnalysis_RejectsNonImage(t *testing.T) {
	handler := newTestServer(t, ServerConfig{Analyzer: &mockAnalyzer{}})

	body, contentType := multipartUpload(t, "notes.txt", "text", "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalysis_ServiceUnavailable(t *testing.T) {
	handler := newTestServer(t, ServerConfig{Analyzer: &mockAnalyzer{err: inference.ErrUnavailable}})

	body, contentType := multipartUpload(t, "lesion.png", "fake-image-bytes", "")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}
