package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecolabel_analysis_duration_seconds",
			Help:    "Analysis pipeline duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"source"},
	)

	AnalysisTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecolabel_analysis_total",
			Help: "Total number of analyses processed",
		},
		[]string{"source", "status"},
	)

	AnalysisRating = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecolabel_analysis_rating_total",
			Help: "Analyses by sustainability rating tier",
		},
		[]string{"severity"},
	)

	OCRDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecolabel_ocr_duration_seconds",
			Help:    "OCR backend call duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)

	OCRTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecolabel_ocr_total",
			Help: "Total OCR backend calls",
		},
		[]string{"provider", "status"},
	)

	OCRConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ecolabel_ocr_confidence",
			Help:    "OCR confidence scores",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	ExtractionTier = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecolabel_extraction_tier_total",
			Help: "Extractions by the strategy tier that produced the result",
		},
		[]string{"tier"},
	)

	MaterialsExtracted = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ecolabel_materials_extracted",
			Help:    "Number of materials extracted per analysis",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 8},
		},
	)

	UnknownMaterials = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ecolabel_unknown_materials_total",
			Help: "Composition entries that did not resolve against the catalog",
		},
	)

	CatalogDegraded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ecolabel_catalog_degraded_total",
			Help: "Analyses served from the minimal fallback catalog",
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecolabel_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecolabel_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)
)

func Init() {
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(AnalysisTotal)
	prometheus.MustRegister(AnalysisRating)
	prometheus.MustRegister(OCRDuration)
	prometheus.MustRegister(OCRTotal)
	prometheus.MustRegister(OCRConfidence)
	prometheus.MustRegister(ExtractionTier)
	prometheus.MustRegister(MaterialsExtracted)
	prometheus.MustRegister(UnknownMaterials)
	prometheus.MustRegister(CatalogDegraded)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

// ObserveOCR records one backend call.
func ObserveOCR(provider string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	OCRTotal.WithLabelValues(provider, status).Inc()
	OCRDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
