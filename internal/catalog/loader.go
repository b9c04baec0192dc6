package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ecolabel/backend/pkg/logger"
)

var (
	// ErrDataSource means the dataset could not be fetched or read.
	ErrDataSource = errors.New("materials dataset unavailable")
	// ErrSchema means the dataset was fetched but is not a valid database.
	ErrSchema = errors.New("materials dataset malformed")
)

// Loader fetches and validates the materials reference dataset. The source
// is either an http(s) URL or a local file path. The dataset is versioned
// ground truth, so HTTP fetches bypass caches.
type Loader struct {
	source     string
	httpClient *http.Client
}

func NewLoader(source string, timeout time.Duration) *Loader {
	return &Loader{
		source: source,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (l *Loader) Load(ctx context.Context) (*MaterialsDatabase, error) {
	raw, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}

	db, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	logger.Debug("Materials database loaded",
		zap.String("source", l.source),
		zap.Int("materials", len(db.Materials)),
		zap.Int("certifications", len(db.Certifications)),
	)

	return db, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataSource, err)
		}
		req.Header.Set("Pragma", "no-cache")
		req.Header.Set("Cache-Control", "no-cache")

		resp, err := l.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataSource, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: unexpected status %d", ErrDataSource, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataSource, err)
		}
		return body, nil
	}

	body, err := os.ReadFile(l.source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataSource, err)
	}
	return body, nil
}

// Parse validates the raw dataset once at the load boundary so the rest of
// the pipeline works with a strict typed schema.
func Parse(raw []byte) (*MaterialsDatabase, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	for _, key := range []string{"materials", "certifications"} {
		field, ok := probe[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing %q array", ErrSchema, key)
		}
		var entries []json.RawMessage
		if err := json.Unmarshal(field, &entries); err != nil {
			return nil, fmt.Errorf("%w: %q is not an array", ErrSchema, key)
		}
	}

	var db MaterialsDatabase
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	return &db, nil
}
