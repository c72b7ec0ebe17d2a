// Package inference is a thin client for the external MIDAS ML
// image-classification service. The service is a collaborator: this package
// only consumes its request/response shape and never implements the
// classifier itself.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/midas-health/midas/internal/log"
)

// ErrUnavailable indicates the inference service could not be reached or
// returned a non-success status.
var ErrUnavailable = errors.New("inference service unavailable")

// RiskLevel is the service's derived triage level for a prediction.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

// Prediction is a single class with its confidence.
type Prediction struct {
	Class       string  `json:"class"`
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
}

// Result is the classification outcome for one image.
type Result struct {
	Success           bool         `json:"success"`
	PrimaryPrediction Prediction   `json:"primary_prediction"`
	AllPredictions    []Prediction `json:"all_predictions"`
	RiskLevel         RiskLevel    `json:"risk_level"`
}

// Health is the service liveness report.
type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// Client talks to the inference service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  log.Logger
}

// NewClient creates an inference client. timeout bounds each request.
func NewClient(baseURL string, timeout time.Duration, logger log.Logger) *Client {
	if logger == nil {
		logger = log.New(log.Config{})
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Healthy reports whether the service is up with its model loaded.
func (c *Client) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("inference health check failed", "error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return false
	}
	return h.Status == "healthy" && h.ModelLoaded
}

// Predict submits image bytes for classification and returns the ranked
// predictions with the derived risk level.
func (c *Client) Predict(ctx context.Context, filename string, image io.Reader) (Result, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return Result{}, fmt.Errorf("building multipart request: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return Result{}, fmt.Errorf("copying image data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Result{}, fmt.Errorf("finalizing multipart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", &body)
	if err != nil {
		return Result{}, fmt.Errorf("building predict request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("inference request failed", "error", err)
		return Result{}, ErrUnavailable
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("inference returned non-OK status", "status", resp.StatusCode)
		return Result{}, ErrUnavailable
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("decoding inference response: %w", err)
	}
	return result, nil
}
