package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"github.com/ecolabel/backend/pkg/circuitbreaker"
	"github.com/ecolabel/backend/pkg/logger"
	"github.com/ecolabel/backend/pkg/retry"
)

// GoogleVision runs DOCUMENT_TEXT_DETECTION against the Cloud Vision API.
type GoogleVision struct {
	client      *vision.ImageAnnotatorClient
	timeout     time.Duration
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

func NewGoogleVision(ctx context.Context, credentialsFile string, timeout time.Duration) (*GoogleVision, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}

	cb := circuitbreaker.NewCircuitBreaker("ocr-google", circuitbreaker.Config{
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

	return &GoogleVision{
		client:      client,
		timeout:     timeout,
		cb:          cb,
		retryConfig: retryConfig,
	}, nil
}

func (g *GoogleVision) Name() string {
	return "google"
}

func (g *GoogleVision) Close() error {
	return g.client.Close()
}

func (g *GoogleVision) Recognize(ctx context.Context, image []byte) (*Result, error) {
	if len(image) == 0 {
		return nil, ErrInvalidImage
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: image},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	var resp *visionpb.BatchAnnotateImagesResponse
	err := g.cb.Execute(ctx, func() error {
		var opErr error
		resp, opErr = retry.DoWithResult(ctx, g.retryConfig, func() (*visionpb.BatchAnnotateImagesResponse, error) {
			return g.client.BatchAnnotateImages(ctx, req)
		})
		return opErr
	})
	if err != nil {
		return nil, fmt.Errorf("vision annotate failed: %w", err)
	}

	if len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return &Result{Provider: g.Name()}, nil
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return nil, fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}

	annotation := r0.FullTextAnnotation
	if annotation == nil || strings.TrimSpace(annotation.Text) == "" {
		return &Result{Provider: g.Name()}, nil
	}

	return &Result{
		Text:       annotation.Text,
		Confidence: averagePageConfidence(annotation.Pages) * 100,
		Provider:   g.Name(),
	}, nil
}

func averagePageConfidence(pages []*visionpb.Page) float64 {
	var sum float64
	n := 0
	for _, page := range pages {
		if page == nil {
			continue
		}
		for _, block := range page.Blocks {
			if block == nil || block.Confidence <= 0 {
				continue
			}
			sum += float64(block.Confidence)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
