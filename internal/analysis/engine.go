package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ecolabel/backend/internal/catalog"
	"github.com/ecolabel/backend/internal/extraction"
	"github.com/ecolabel/backend/internal/metrics"
	"github.com/ecolabel/backend/internal/ocr"
	"github.com/ecolabel/backend/internal/storage/models"
	"github.com/ecolabel/backend/pkg/logger"
	"github.com/ecolabel/backend/pkg/utils"
)

// HistoryStore persists finished analyses. The engine never touches SQL.
type HistoryStore interface {
	SaveAnalysis(record *models.AnalysisRecord) error
}

// ResultCache caches responses keyed by image fingerprint.
type ResultCache interface {
	Get(ctx context.Context, key string, out interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// OCRProcessor is the boundary to the OCR orchestration layer.
type OCRProcessor interface {
	Process(ctx context.Context, image []byte, preferred string) (*ocr.Result, error)
}

// ProgressFunc receives pipeline stage names for live progress streaming.
type ProgressFunc func(stage string)

// Response is the outward analysis contract. Success=false with OCRText set
// is the recognized "text present but no composition found" outcome that
// routes the user to manual entry.
type Response struct {
	ID              string  `json:"id"`
	Success         bool    `json:"success"`
	Source          string  `json:"source"`
	Error           string  `json:"error,omitempty"`
	OCRText         string  `json:"ocr_text,omitempty"`
	Confidence      float64 `json:"confidence,omitempty"`
	OCRProvider     string  `json:"ocr_provider,omitempty"`
	Result          *Result `json:"result,omitempty"`
	Rating          *Rating `json:"rating,omitempty"`
	CatalogDegraded bool    `json:"catalog_degraded,omitempty"`
	LatencyMS       int     `json:"latency_ms"`
}

// ManualEntry is one user-entered composition line. Either the canonical
// material ID or a free-text name must be present.
type ManualEntry struct {
	MaterialID string  `json:"material_id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

type Engine struct {
	loader          *catalog.Loader
	extractor       *extraction.Extractor
	ocr             OCRProcessor
	history         HistoryStore
	cache           ResultCache
	cacheTTL        time.Duration
	defaultProvider string
}

func NewEngine(
	loader *catalog.Loader,
	extractor *extraction.Extractor,
	ocrProcessor OCRProcessor,
	history HistoryStore,
	cache ResultCache,
	cacheTTL time.Duration,
	defaultProvider string,
) *Engine {
	return &Engine{
		loader:          loader,
		extractor:       extractor,
		ocr:             ocrProcessor,
		history:         history,
		cache:           cache,
		cacheTTL:        cacheTTL,
		defaultProvider: defaultProvider,
	}
}

// AnalyzeImage runs the full pipeline: OCR, extraction, catalog analysis.
func (e *Engine) AnalyzeImage(ctx context.Context, image []byte, provider string) (*Response, error) {
	return e.AnalyzeImageWithProgress(ctx, image, provider, nil)
}

func (e *Engine) AnalyzeImageWithProgress(ctx context.Context, image []byte, provider string, progress ProgressFunc) (*Response, error) {
	start := time.Now()

	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrNoInput)
	}
	if provider == "" {
		provider = e.defaultProvider
	}

	imageHash := utils.HashBytes(image)
	if e.cache != nil {
		var cached Response
		if hit, err := e.cache.Get(ctx, imageHash, &cached); err != nil {
			logger.Warn("Cache lookup failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	report(progress, "ocr")
	ocrResult, err := e.ocr.Process(ctx, image, provider)
	if err != nil {
		return nil, fmt.Errorf("ocr failed: %w", err)
	}
	metrics.OCRConfidence.Observe(ocrResult.Confidence)

	if strings.TrimSpace(ocrResult.Text) == "" {
		return nil, fmt.Errorf("%w: no text detected in image", ErrNoInput)
	}

	response, err := e.analyzeRawText(ctx, ocrResult.Text, "image", ocrResult, start, progress)
	if err != nil {
		return nil, err
	}

	if e.cache != nil && response.Success {
		if err := e.cache.Set(ctx, imageHash, response, e.cacheTTL); err != nil {
			logger.Warn("Cache store failed", zap.Error(err))
		}
	}
	return response, nil
}

// AnalyzeText analyzes raw label text supplied by the caller, bypassing OCR.
func (e *Engine) AnalyzeText(ctx context.Context, text string) (*Response, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty text", ErrNoInput)
	}
	return e.analyzeRawText(ctx, text, "text", nil, time.Now(), nil)
}

// AnalyzeManual analyzes an explicit composition list. Manual entry states
// user intent exactly, so it is validated strictly and never auto-repaired.
func (e *Engine) AnalyzeManual(ctx context.Context, entries []ManualEntry) (*Response, error) {
	start := time.Now()

	composition, err := validateManualEntries(entries)
	if err != nil {
		return nil, err
	}

	return e.analyzeComposition(ctx, composition, "manual", nil, start, nil)
}

func (e *Engine) analyzeRawText(ctx context.Context, text, source string, ocrResult *ocr.Result, start time.Time, progress ProgressFunc) (*Response, error) {
	report(progress, "extraction")

	composition, tier := e.extractor.ExtractWithTier(text)
	metrics.ExtractionTier.WithLabelValues(string(tier)).Inc()
	metrics.MaterialsExtracted.Observe(float64(len(composition)))

	if len(composition) == 0 {
		metrics.AnalysisTotal.WithLabelValues(source, "no_materials").Inc()
		logger.Info("No materials recognized in text",
			zap.String("source", source),
			zap.Int("text_length", len(text)),
		)

		response := &Response{
			ID:        uuid.New().String(),
			Success:   false,
			Source:    source,
			Error:     "no materials recognized in label text",
			OCRText:   text,
			LatencyMS: int(time.Since(start).Milliseconds()),
		}
		if ocrResult != nil {
			response.Confidence = ocrResult.Confidence
			response.OCRProvider = ocrResult.Provider
		}
		return response, nil
	}

	return e.analyzeComposition(ctx, composition, source, ocrResult, start, progress)
}

func (e *Engine) analyzeComposition(ctx context.Context, composition []extraction.MaterialComposition, source string, ocrResult *ocr.Result, start time.Time, progress ProgressFunc) (*Response, error) {
	report(progress, "analysis")

	db, degraded := e.loadCatalog(ctx)

	result := Analyze(composition, db)
	rating := RateScore(result.TotalScore)

	if n := len(result.UnknownMaterials); n > 0 {
		metrics.UnknownMaterials.Add(float64(n))
		logger.Warn("Composition references unknown materials",
			zap.Strings("material_ids", result.UnknownMaterials),
			zap.Bool("catalog_degraded", degraded),
		)
	}

	response := &Response{
		ID:              uuid.New().String(),
		Success:         true,
		Source:          source,
		Result:          result,
		Rating:          &rating,
		CatalogDegraded: degraded,
		LatencyMS:       int(time.Since(start).Milliseconds()),
	}
	if ocrResult != nil {
		response.OCRText = ocrResult.Text
		response.Confidence = ocrResult.Confidence
		response.OCRProvider = ocrResult.Provider
	}

	metrics.AnalysisTotal.WithLabelValues(source, "success").Inc()
	metrics.AnalysisRating.WithLabelValues(rating.Tier).Inc()
	metrics.AnalysisDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

	logger.Info("Analysis complete",
		zap.String("analysis_id", response.ID),
		zap.String("source", source),
		zap.Float64("total_score", result.TotalScore),
		zap.String("rating", rating.Label),
		zap.Int("materials", len(result.MaterialBreakdown)),
		zap.Int("unknown_materials", len(result.UnknownMaterials)),
		zap.Int("latency_ms", response.LatencyMS),
	)

	e.saveHistory(response)
	report(progress, "done")
	return response, nil
}

func (e *Engine) loadCatalog(ctx context.Context) (*catalog.MaterialsDatabase, bool) {
	db, err := e.loader.Load(ctx)
	if err == nil {
		return db, false
	}

	// Degraded mode: analysis stays available on the minimal catalog, but
	// the response is marked so the result is never mistaken for real data.
	metrics.CatalogDegraded.Inc()
	logger.Error("Materials database load failed, using fallback catalog", zap.Error(err))
	return catalog.FallbackDatabase(), true
}

func (e *Engine) saveHistory(response *Response) {
	if e.history == nil || !response.Success {
		return
	}

	record := &models.AnalysisRecord{
		ID:              response.ID,
		Source:          response.Source,
		OCRProvider:     response.OCRProvider,
		OCRText:         response.OCRText,
		Confidence:      response.Confidence,
		TotalScore:      response.Result.TotalScore,
		RatingLabel:     response.Rating.Label,
		CatalogDegraded: response.CatalogDegraded,
		LatencyMS:       response.LatencyMS,
		CreatedAt:       time.Now(),
	}
	for _, entry := range response.Result.MaterialBreakdown {
		record.Materials = append(record.Materials, models.AnalysisMaterial{
			AnalysisID: response.ID,
			MaterialID: entry.ID,
			Name:       entry.Name,
			Percentage: entry.Percentage,
			Score:      entry.Score,
		})
	}

	if err := e.history.SaveAnalysis(record); err != nil {
		logger.Warn("Failed to record analysis history", zap.Error(err))
	}
}

func validateManualEntries(entries []ManualEntry) ([]extraction.MaterialComposition, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidComposition)
	}

	composition := make([]extraction.MaterialComposition, 0, len(entries))
	var total float64

	for i, entry := range entries {
		materialID := strings.TrimSpace(entry.MaterialID)
		if materialID == "" {
			if strings.TrimSpace(entry.Name) == "" {
				return nil, fmt.Errorf("%w: entry %d has no material", ErrInvalidComposition, i+1)
			}
			materialID = extraction.NormalizeMaterialName(entry.Name)
		}

		if entry.Percentage <= 0 || entry.Percentage > 100 {
			return nil, fmt.Errorf("%w: entry %d percentage out of range", ErrInvalidComposition, i+1)
		}

		composition = append(composition, extraction.MaterialComposition{
			MaterialID: materialID,
			Percentage: entry.Percentage,
		})
		total += entry.Percentage
	}

	if math.Abs(total-100) > 1e-9 {
		return nil, fmt.Errorf("%w: percentages sum to %g, expected 100", ErrInvalidComposition, total)
	}

	return composition, nil
}

func report(progress ProgressFunc, stage string) {
	if progress != nil {
		progress(stage)
	}
}
