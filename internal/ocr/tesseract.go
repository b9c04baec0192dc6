package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"

	"github.com/ecolabel/backend/pkg/logger"
)

// labelWhitelist restricts recognition to the characters that occur on
// Spanish/English garment care labels, cutting down OCR noise.
const labelWhitelist = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZáéíóúÁÉÍÓÚñÑüÜ0123456789%:.,;()- "

// Tesseract is the local, offline OCR backend. It is the always-available
// fallback for the cloud providers.
type Tesseract struct {
	languages []string
	timeout   time.Duration
}

func NewTesseract(languages string, timeout time.Duration) *Tesseract {
	langs := strings.Split(languages, "+")
	if len(langs) == 0 || langs[0] == "" {
		langs = []string{"spa", "eng"}
	}
	return &Tesseract{
		languages: langs,
		timeout:   timeout,
	}
}

func (t *Tesseract) Name() string {
	return "tesseract"
}

func (t *Tesseract) Recognize(ctx context.Context, image []byte) (*Result, error) {
	if len(image) == 0 {
		return nil, ErrInvalidImage
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// gosseract clients are not safe for reuse across goroutines, so one
	// per call.
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages...); err != nil {
		return nil, fmt.Errorf("failed to set languages: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetWhitelist(labelWhitelist); err != nil {
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	start := time.Now()
	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("tesseract recognition failed: %w", err)
	}

	confidence := estimateConfidence(text)

	logger.Debug("Tesseract recognition complete",
		zap.Int("text_length", len(text)),
		zap.Float64("confidence", confidence),
		zap.Duration("duration", time.Since(start)),
	)

	return &Result{
		Text:       text,
		Confidence: confidence,
		Provider:   t.Name(),
	}, nil
}

// estimateConfidence scores text quality on a 0-100 scale. Tesseract's Go
// binding exposes no per-run confidence, so this approximates one from the
// shape of the output.
func estimateConfidence(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	confidence := 50.0

	if len(text) > 40 {
		confidence += 10
	}
	if len(strings.Fields(text)) > 5 {
		confidence += 10
	}

	alpha := 0
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			alpha++
		}
	}
	ratio := float64(alpha) / float64(len(text))
	if ratio > 0.5 && ratio < 0.9 {
		confidence += 10
	}

	if strings.Contains(text, "%") {
		confidence += 5
	}

	if confidence > 85 {
		confidence = 85
	}
	return confidence
}
