package sqlite

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ecolabel/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	if err := client.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}
	return client
}

func sampleRecord(id string) *models.AnalysisRecord {
	return &models.AnalysisRecord{
		ID:          id,
		Source:      "image",
		OCRProvider: "tesseract",
		OCRText:     "60% algodón, 40% poliéster",
		Confidence:  82.5,
		TotalScore:  4.1,
		RatingLabel: "Regular",
		LatencyMS:   340,
		CreatedAt:   time.Now(),
		Materials: []models.AnalysisMaterial{
			{AnalysisID: id, MaterialID: "cotton_conv", Name: "Algodón convencional", Percentage: 60, Score: 4.5},
			{AnalysisID: id, MaterialID: "polyester", Name: "Poliéster", Percentage: 40, Score: 3.5},
		},
	}
}

func TestSaveAndGetAnalysis(t *testing.T) {
	client := newTestClient(t)

	record := sampleRecord("a1")
	if err := client.SaveAnalysis(record); err != nil {
		t.Fatalf("SaveAnalysis returned error: %v", err)
	}

	got, err := client.GetAnalysis("a1")
	if err != nil {
		t.Fatalf("GetAnalysis returned error: %v", err)
	}

	if got.Source != "image" || got.RatingLabel != "Regular" {
		t.Errorf("record = %+v", got)
	}
	if got.TotalScore != 4.1 {
		t.Errorf("TotalScore = %v, want 4.1", got.TotalScore)
	}
	if len(got.Materials) != 2 {
		t.Fatalf("materials count = %d, want 2", len(got.Materials))
	}
	if got.Materials[0].MaterialID != "cotton_conv" {
		t.Errorf("first material = %q", got.Materials[0].MaterialID)
	}
}

func TestGetAnalysisNotFound(t *testing.T) {
	client := newTestClient(t)

	_, err := client.GetAnalysis("nope")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("error = %v, want sql.ErrNoRows", err)
	}
}

func TestListHistory(t *testing.T) {
	client := newTestClient(t)

	for i, id := range []string{"a1", "a2", "a3"} {
		record := sampleRecord(id)
		record.CreatedAt = time.Now().Add(time.Duration(i) * time.Hour)
		if err := client.SaveAnalysis(record); err != nil {
			t.Fatalf("SaveAnalysis returned error: %v", err)
		}
	}

	records, err := client.ListHistory(2)
	if err != nil {
		t.Fatalf("ListHistory returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("listed %d records, want 2", len(records))
	}
	if records[0].ID != "a3" {
		t.Errorf("first record = %q, want newest a3", records[0].ID)
	}
}

func TestStoreFeedback(t *testing.T) {
	client := newTestClient(t)

	if err := client.SaveAnalysis(sampleRecord("a1")); err != nil {
		t.Fatalf("SaveAnalysis returned error: %v", err)
	}

	err := client.StoreFeedback(&models.Feedback{
		AnalysisID: "a1",
		Accurate:   true,
		Comment:    "acertado",
	})
	if err != nil {
		t.Errorf("StoreFeedback returned error: %v", err)
	}
}

func TestClearHistory(t *testing.T) {
	client := newTestClient(t)

	if err := client.SaveAnalysis(sampleRecord("a1")); err != nil {
		t.Fatalf("SaveAnalysis returned error: %v", err)
	}
	if err := client.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory returned error: %v", err)
	}

	records, err := client.ListHistory(0)
	if err != nil {
		t.Fatalf("ListHistory returned error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("history not cleared: %d records remain", len(records))
	}
}
