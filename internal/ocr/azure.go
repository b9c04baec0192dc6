package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ecolabel/backend/pkg/circuitbreaker"
	"github.com/ecolabel/backend/pkg/logger"
	"github.com/ecolabel/backend/pkg/retry"
)

const azureReadPath = "/vision/v3.2/read/analyze"

// Azure calls the Computer Vision Read API: submit the image, then poll the
// returned operation until it settles.
type Azure struct {
	endpoint     string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
	timeout      time.Duration
	cb           *circuitbreaker.CircuitBreaker
	retryConfig  retry.Config
}

func NewAzure(endpoint, apiKey string, timeout time.Duration) *Azure {
	cb := circuitbreaker.NewCircuitBreaker("ocr-azure", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	return &Azure{
		endpoint:     strings.TrimSuffix(endpoint, "/"),
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		pollInterval: time.Second,
		timeout:      timeout,
		cb:           cb,
		retryConfig:  retryConfig,
	}
}

func (a *Azure) Name() string {
	return "azure"
}

type azureReadResponse struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		ReadResults []struct {
			Lines []struct {
				Text  string `json:"text"`
				Words []struct {
					Confidence float64 `json:"confidence"`
				} `json:"words"`
			} `json:"lines"`
		} `json:"readResults"`
	} `json:"analyzeResult"`
}

func (a *Azure) Recognize(ctx context.Context, image []byte) (*Result, error) {
	if len(image) == 0 {
		return nil, ErrInvalidImage
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var operationURL string
	err := a.cb.Execute(ctx, func() error {
		var opErr error
		operationURL, opErr = retry.DoWithResult(ctx, a.retryConfig, func() (string, error) {
			return a.submit(ctx, image)
		})
		return opErr
	})
	if err != nil {
		return nil, fmt.Errorf("azure read submit failed: %w", err)
	}

	read, err := a.poll(ctx, operationURL)
	if err != nil {
		return nil, err
	}

	var lines []string
	var confidenceSum float64
	words := 0
	for _, page := range read.AnalyzeResult.ReadResults {
		for _, line := range page.Lines {
			lines = append(lines, line.Text)
			for _, word := range line.Words {
				confidenceSum += word.Confidence
				words++
			}
		}
	}

	confidence := 0.0
	if words > 0 {
		confidence = confidenceSum / float64(words) * 100
	}

	return &Result{
		Text:       strings.Join(lines, "\n"),
		Confidence: confidence,
		Provider:   a.Name(),
	}, nil
}

func (a *Azure) submit(ctx context.Context, image []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+azureReadPath, bytes.NewReader(image))
	if err != nil {
		return "", err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", a.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return "", fmt.Errorf("missing Operation-Location header")
	}
	return operationURL, nil
}

func (a *Azure) poll(ctx context.Context, operationURL string) (*azureReadResponse, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.pollInterval):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", a.apiKey)

		resp, err := a.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("azure read poll failed: %w", err)
		}

		var read azureReadResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&read)
		resp.Body.Close()
		if decodeErr != nil {
			return nil, fmt.Errorf("failed to decode read response: %w", decodeErr)
		}

		switch read.Status {
		case "succeeded":
			return &read, nil
		case "failed":
			return nil, fmt.Errorf("azure read operation failed")
		}
	}
}
