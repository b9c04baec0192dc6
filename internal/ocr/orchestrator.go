package ocr

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ecolabel/backend/internal/metrics"
	"github.com/ecolabel/backend/pkg/logger"
)

// Orchestrator routes recognition to the requested backend and falls back
// to the local provider when a cloud backend fails or is not configured.
// Fallback order: preferred provider, then tesseract.
type Orchestrator struct {
	providers map[string]Provider
	fallback  Provider
}

func NewOrchestrator(fallback Provider, cloud ...Provider) *Orchestrator {
	providers := map[string]Provider{
		fallback.Name(): fallback,
	}
	for _, p := range cloud {
		providers[p.Name()] = p
	}
	return &Orchestrator{
		providers: providers,
		fallback:  fallback,
	}
}

// Process runs OCR with the preferred backend. A cloud failure degrades to
// the local fallback rather than failing the request.
func (o *Orchestrator) Process(ctx context.Context, image []byte, preferred string) (*Result, error) {
	if len(image) == 0 {
		return nil, ErrInvalidImage
	}

	provider, ok := o.providers[preferred]
	if !ok {
		logger.Warn("Unknown or unconfigured OCR provider, using fallback",
			zap.String("requested", preferred),
			zap.String("fallback", o.fallback.Name()),
		)
		provider = o.fallback
	}

	result, err := o.recognize(ctx, provider, image)
	if err == nil {
		return result, nil
	}

	if provider == o.fallback {
		return nil, err
	}

	logger.Warn("OCR provider failed, falling back",
		zap.String("provider", provider.Name()),
		zap.String("fallback", o.fallback.Name()),
		zap.Error(err),
	)

	result, fallbackErr := o.recognize(ctx, o.fallback, image)
	if fallbackErr != nil {
		return nil, fmt.Errorf("%s failed (%v); fallback %s failed: %w",
			provider.Name(), err, o.fallback.Name(), fallbackErr)
	}
	return result, nil
}

func (o *Orchestrator) recognize(ctx context.Context, provider Provider, image []byte) (*Result, error) {
	start := time.Now()
	result, err := provider.Recognize(ctx, image)
	metrics.ObserveOCR(provider.Name(), err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	logger.Info("OCR complete",
		zap.String("provider", provider.Name()),
		zap.Int("text_length", len(result.Text)),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}
