package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
)

// Result is what every OCR backend returns: raw text plus a 0-100
// confidence estimate. Downstream extraction is backend-agnostic.
type Result struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Provider   string  `json:"provider"`
}

// Provider is a single OCR backend. Implementations own their network
// protocol; heuristics for interpreting the text live elsewhere.
type Provider interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (*Result, error)
}

var ErrInvalidImage = errors.New("invalid image data")

var dataURLPrefix = regexp.MustCompile(`^data:image/[a-z+.-]+;base64,`)

// DecodeImage accepts a base64 payload with or without a data URL prefix
// and returns the raw image bytes.
func DecodeImage(encoded string) ([]byte, error) {
	if len(encoded) < 100 {
		return nil, fmt.Errorf("%w: payload too short", ErrInvalidImage)
	}

	encoded = dataURLPrefix.ReplaceAllString(encoded, "")

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid base64", ErrInvalidImage)
	}
	return data, nil
}
