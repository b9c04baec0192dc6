package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validDataset = `{
	"materials": [
		{
			"id": "hemp",
			"name": "Cáñamo",
			"category": "Natural",
			"environmentalImpact": {
				"waterUsage": {"value": 300, "unit": "litros/kg"},
				"co2Emissions": {"value": 1.8, "unit": "kg CO₂e/kg"}
			},
			"sustainabilityScore": {"total": 9, "water": 2, "co2": 2, "chemicals": 2, "biodegradation": 2, "renewability": 1}
		},
		{
			"id": "wool",
			"name": "Lana",
			"category": "Natural",
			"environmentalImpact": {
				"waterUsage": {"value": "variable", "unit": "litros/kg"}
			},
			"sustainabilityScore": {"total": 6}
		}
	],
	"certifications": [
		{"id": "gots", "name": "GOTS", "fullName": "Global Organic Textile Standard"}
	]
}`

func TestParse(t *testing.T) {
	db, err := Parse([]byte(validDataset))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if len(db.Materials) != 2 {
		t.Fatalf("parsed %d materials, want 2", len(db.Materials))
	}
	if len(db.Certifications) != 1 {
		t.Fatalf("parsed %d certifications, want 1", len(db.Certifications))
	}

	hemp, ok := db.FindByID("hemp")
	if !ok {
		t.Fatal("hemp not found by ID")
	}
	if value, numeric := hemp.EnvironmentalImpact.WaterUsage.Value.Float(); !numeric || value != 300 {
		t.Errorf("hemp water usage = %v (numeric %v), want 300", value, numeric)
	}

	wool, ok := db.FindByName("lana")
	if !ok {
		t.Fatal("wool not found by case-insensitive name")
	}
	if _, numeric := wool.EnvironmentalImpact.WaterUsage.Value.Float(); numeric {
		t.Error("text water usage parsed as numeric")
	}
	if got := wool.EnvironmentalImpact.WaterUsage.Value.String(); got != "variable" {
		t.Errorf("text water usage = %q, want variable", got)
	}
}

func TestParseSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "not json at all"},
		{"missing materials", `{"certifications": []}`},
		{"missing certifications", `{"materials": []}`},
		{"materials not array", `{"materials": {}, "certifications": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			if !errors.Is(err, ErrSchema) {
				t.Errorf("error = %v, want ErrSchema", err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "materials.json")
	if err := os.WriteFile(path, []byte(validDataset), 0644); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}

	loader := NewLoader(path, time.Second)
	db, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(db.Materials) != 2 {
		t.Errorf("loaded %d materials, want 2", len(db.Materials))
	}
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "missing.json"), time.Second)

	_, err := loader.Load(context.Background())
	if !errors.Is(err, ErrDataSource) {
		t.Errorf("error = %v, want ErrDataSource", err)
	}
}

func TestLoadFromHTTP(t *testing.T) {
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Write([]byte(validDataset))
	}))
	defer server.Close()

	loader := NewLoader(server.URL, time.Second)
	db, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(db.Materials) != 2 {
		t.Errorf("loaded %d materials, want 2", len(db.Materials))
	}
	if gotHeaders.Get("Cache-Control") != "no-cache" {
		t.Error("fetch did not bypass caches")
	}
}

func TestLoadHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	loader := NewLoader(server.URL, time.Second)
	_, err := loader.Load(context.Background())
	if !errors.Is(err, ErrDataSource) {
		t.Errorf("error = %v, want ErrDataSource", err)
	}
}

func TestFallbackDatabase(t *testing.T) {
	db := FallbackDatabase()

	cotton, ok := db.FindByID("cotton_conv")
	if !ok {
		t.Fatal("fallback catalog missing cotton_conv")
	}
	if cotton.SustainabilityScore.Total != 4.5 {
		t.Errorf("cotton score = %v, want 4.5", cotton.SustainabilityScore.Total)
	}

	polyester, ok := db.FindByID("polyester")
	if !ok {
		t.Fatal("fallback catalog missing polyester")
	}
	if polyester.SustainabilityScore.Total != 3.5 {
		t.Errorf("polyester score = %v, want 3.5", polyester.SustainabilityScore.Total)
	}

	for _, material := range db.Materials {
		for _, certID := range material.Certifications {
			if _, ok := db.FindCertification(certID); !ok {
				t.Errorf("material %s references unknown certification %s", material.ID, certID)
			}
		}
	}
}
