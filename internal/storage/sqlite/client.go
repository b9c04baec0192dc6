package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/ecolabel/backend/internal/storage/models"
	"github.com/ecolabel/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_history (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		ocr_provider TEXT,
		ocr_text TEXT,
		confidence REAL,
		total_score REAL NOT NULL,
		rating_label TEXT NOT NULL,
		catalog_degraded INTEGER DEFAULT 0,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_created ON analysis_history(created_at);
	CREATE INDEX IF NOT EXISTS idx_history_source ON analysis_history(source);

	CREATE TABLE IF NOT EXISTS analysis_materials (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		analysis_id TEXT NOT NULL,
		material_id TEXT NOT NULL,
		name TEXT,
		percentage REAL NOT NULL,
		score REAL NOT NULL,
		FOREIGN KEY (analysis_id) REFERENCES analysis_history(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_materials_analysis ON analysis_materials(analysis_id);

	CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		analysis_id TEXT NOT NULL,
		accurate INTEGER NOT NULL,
		comment TEXT,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (analysis_id) REFERENCES analysis_history(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_feedback_analysis ON feedback(analysis_id);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) SaveAnalysis(record *models.AnalysisRecord) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	degraded := 0
	if record.CatalogDegraded {
		degraded = 1
	}

	_, err = tx.Exec(
		`INSERT INTO analysis_history (id, source, ocr_provider, ocr_text, confidence, total_score,
			rating_label, catalog_degraded, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Source,
		record.OCRProvider,
		record.OCRText,
		record.Confidence,
		record.TotalScore,
		record.RatingLabel,
		degraded,
		record.LatencyMS,
		record.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}

	for _, m := range record.Materials {
		_, err = tx.Exec(
			`INSERT INTO analysis_materials (analysis_id, material_id, name, percentage, score) VALUES (?, ?, ?, ?, ?)`,
			record.ID, m.MaterialID, m.Name, m.Percentage, m.Score,
		)
		if err != nil {
			return fmt.Errorf("failed to insert analysis material: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit analysis: %w", err)
	}

	logger.Debug("Analysis recorded",
		zap.String("analysis_id", record.ID),
		zap.Float64("total_score", record.TotalScore),
	)
	return nil
}

func (c *Client) GetAnalysis(id string) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	var degraded int
	var createdAt int64

	err := c.db.QueryRow(
		`SELECT id, source, ocr_provider, ocr_text, confidence, total_score, rating_label,
			catalog_degraded, latency_ms, created_at
		FROM analysis_history WHERE id = ?`,
		id,
	).Scan(
		&record.ID,
		&record.Source,
		&record.OCRProvider,
		&record.OCRText,
		&record.Confidence,
		&record.TotalScore,
		&record.RatingLabel,
		&degraded,
		&record.LatencyMS,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	record.CatalogDegraded = degraded == 1
	record.CreatedAt = time.Unix(createdAt, 0)

	rows, err := c.db.Query(
		`SELECT analysis_id, material_id, name, percentage, score FROM analysis_materials WHERE analysis_id = ?`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis materials: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.AnalysisMaterial
		if err := rows.Scan(&m.AnalysisID, &m.MaterialID, &m.Name, &m.Percentage, &m.Score); err != nil {
			return nil, fmt.Errorf("failed to scan material row: %w", err)
		}
		record.Materials = append(record.Materials, m)
	}

	return &record, nil
}

func (c *Client) ListHistory(limit int) ([]models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := c.db.Query(
		`SELECT id, source, ocr_provider, confidence, total_score, rating_label, catalog_degraded, created_at
		FROM analysis_history
		ORDER BY created_at DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		var r models.AnalysisRecord
		var degraded int
		var createdAt int64

		err := rows.Scan(&r.ID, &r.Source, &r.OCRProvider, &r.Confidence, &r.TotalScore,
			&r.RatingLabel, &degraded, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}

		r.CatalogDegraded = degraded == 1
		r.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, r)
	}

	return records, nil
}

func (c *Client) StoreFeedback(feedback *models.Feedback) error {
	accurate := 0
	if feedback.Accurate {
		accurate = 1
	}

	_, err := c.db.Exec(
		`INSERT INTO feedback (analysis_id, accurate, comment, created_at) VALUES (?, ?, ?, ?)`,
		feedback.AnalysisID,
		accurate,
		feedback.Comment,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to store feedback: %w", err)
	}

	logger.Info("Feedback stored",
		zap.String("analysis_id", feedback.AnalysisID),
		zap.Bool("accurate", feedback.Accurate),
	)
	return nil
}

func (c *Client) ClearHistory() error {
	_, err := c.db.Exec(`DELETE FROM analysis_history`)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	logger.Info("Analysis history cleared")
	return nil
}
