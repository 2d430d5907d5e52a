package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/careledger/careledger/internal/config"
)

// HealthInput is the documented I/O contract of the external risk estimator.
type HealthInput struct {
	Age         int     `json:"age"`
	Gender      string  `json:"gender"`
	SystolicBP  int     `json:"systolicBP"`
	DiastolicBP int     `json:"diastolicBP"`
	BloodSugar  float64 `json:"bloodSugar"`
	BMI         float64 `json:"bmi"`
}

// HealthResult carries risks as percentages in [0,100].
type HealthResult struct {
	CardiovascularRisk float64  `json:"cardiovascularRisk"`
	DiabetesRisk       float64  `json:"diabetesRisk"`
	OverallHealthScore float64  `json:"overallHealthScore"`
	Recommendations    []string `json:"recommendations"`
}

type ImageInput struct {
	Filename     string `json:"filename"`
	AnalysisType string `json:"analysisType"`
}

type ImageResult struct {
	AbnormalityDetected bool     `json:"abnormalityDetected"`
	Confidence          float64  `json:"confidence"`
	Findings            string   `json:"findings"`
	Recommendations     []string `json:"recommendations"`
}

// Predictor is the external collaborator interface. Implementations must not
// be relied on for availability: callers fall back to the threshold scorer on
// any error.
type Predictor interface {
	PredictHealthRisk(ctx context.Context, in HealthInput) (*HealthResult, error)
	AnalyzeImage(ctx context.Context, in ImageInput) (*ImageResult, error)
}

// Client talks to the remote estimator over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.PredictorConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) PredictHealthRisk(ctx context.Context, in HealthInput) (*HealthResult, error) {
	var out HealthResult
	if err := c.post(ctx, "/predict", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AnalyzeImage(ctx context.Context, in ImageInput) (*ImageResult, error) {
	var out ImageResult
	if err := c.post(ctx, "/analyze", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("predictor endpoint not configured")
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling predictor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("predictor returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

var _ Predictor = (*Client)(nil)
