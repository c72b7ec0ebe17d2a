package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/midas-health/midas/internal/audit"
	"github.com/midas-health/midas/internal/inference"
	"github.com/midas-health/midas/internal/log"
)

// maxImageBytes bounds analysis image uploads.
const maxImageBytes = 20 << 20 // 20MB

// allowedImageExtensions lists accepted image formats for analysis.
var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
}

// Analyzer is the slice of the inference client the handler depends on.
type Analyzer interface {
	Predict(ctx context.Context, filename string, image io.Reader) (inference.Result, error)
	Healthy(ctx context.Context) bool
}

// analysisHandler proxies skin lesion images to the ML inference service.
type analysisHandler struct {
	analyzer Analyzer
	recorder *audit.Recorder
	logger   log.Logger
}

// analyze handles POST /api/v1/analysis (multipart form: file).
func (h *analysisHandler) analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form", h.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required", h.logger)
		return
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedImageExtensions[ext]; !ok {
		writeError(w, http.StatusBadRequest, "Unsupported image type", h.logger)
		return
	}

	result, err := h.analyzer.Predict(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, inference.ErrUnavailable) {
			writeError(w, http.StatusBadGateway, "Analysis service unavailable", h.logger)
			return
		}
		h.logger.Error("analysis failed", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to analyze image", h.logger)
		return
	}

	h.recorder.Record("", audit.ActionAnalysis, string(result.RiskLevel), map[string]any{
		"class":      result.PrimaryPrediction.Class,
		"confidence": result.PrimaryPrediction.Confidence,
	})
	writeJSON(w, http.StatusOK, result, h.logger)
}
