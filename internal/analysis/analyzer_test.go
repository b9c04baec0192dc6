package analysis

import (
	"testing"

	"github.com/ecolabel/backend/internal/catalog"
	"github.com/ecolabel/backend/internal/extraction"
)

func TestAnalyzeWeightedScore(t *testing.T) {
	db := catalog.FallbackDatabase()

	result := Analyze([]extraction.MaterialComposition{
		{MaterialID: "cotton_conv", Percentage: 60},
		{MaterialID: "polyester", Percentage: 40},
	}, db)

	if result.TotalScore != 4.1 {
		t.Errorf("TotalScore = %v, want 4.1", result.TotalScore)
	}
	if len(result.MaterialBreakdown) != 2 {
		t.Fatalf("MaterialBreakdown has %d entries, want 2", len(result.MaterialBreakdown))
	}
	if result.MaterialBreakdown[0].ID != "cotton_conv" {
		t.Errorf("breakdown not sorted by percentage: first entry %q", result.MaterialBreakdown[0].ID)
	}

	if result.EnvironmentalImpact.WaterUsage.Value != 6004 {
		t.Errorf("WaterUsage = %v, want 6004", result.EnvironmentalImpact.WaterUsage.Value)
	}
	if result.EnvironmentalImpact.WaterUsage.Unit != "litros/kg" {
		t.Errorf("WaterUsage unit = %q", result.EnvironmentalImpact.WaterUsage.Unit)
	}
	if result.EnvironmentalImpact.CO2Emissions.Value != 7.1 {
		t.Errorf("CO2Emissions = %v, want 7.1", result.EnvironmentalImpact.CO2Emissions.Value)
	}

	if len(result.UnknownMaterials) != 0 {
		t.Errorf("UnknownMaterials = %v, want none", result.UnknownMaterials)
	}
}

func TestAnalyzeUnknownMaterials(t *testing.T) {
	db := catalog.FallbackDatabase()

	result := Analyze([]extraction.MaterialComposition{
		{MaterialID: "wool", Percentage: 70},
		{MaterialID: "elastane", Percentage: 30},
	}, db)

	if result.TotalScore != 0 {
		t.Errorf("TotalScore = %v, want 0", result.TotalScore)
	}
	if len(result.MaterialBreakdown) != 0 {
		t.Errorf("MaterialBreakdown = %v, want empty", result.MaterialBreakdown)
	}
	if len(result.UnknownMaterials) != 2 {
		t.Fatalf("UnknownMaterials has %d entries, want 2", len(result.UnknownMaterials))
	}
	if result.UnknownMaterials[0] != "wool" || result.UnknownMaterials[1] != "elastane" {
		t.Errorf("UnknownMaterials = %v", result.UnknownMaterials)
	}
}

func TestAnalyzePartiallyKnown(t *testing.T) {
	db := catalog.FallbackDatabase()

	result := Analyze([]extraction.MaterialComposition{
		{MaterialID: "cotton_conv", Percentage: 95},
		{MaterialID: "elastane", Percentage: 5},
	}, db)

	// 4.5 * 0.95, the unresolved 5% contributes nothing.
	if result.TotalScore != 4.3 {
		t.Errorf("TotalScore = %v, want 4.3", result.TotalScore)
	}
	if len(result.MaterialBreakdown) != 1 {
		t.Errorf("MaterialBreakdown has %d entries, want 1", len(result.MaterialBreakdown))
	}
	if len(result.UnknownMaterials) != 1 || result.UnknownMaterials[0] != "elastane" {
		t.Errorf("UnknownMaterials = %v, want [elastane]", result.UnknownMaterials)
	}
}

func TestAnalyzeCertifications(t *testing.T) {
	db := catalog.FallbackDatabase()

	result := Analyze([]extraction.MaterialComposition{
		{MaterialID: "cotton_conv", Percentage: 60},
		{MaterialID: "polyester", Percentage: 40},
	}, db)

	if len(result.RecommendedCertifications) != 2 {
		t.Fatalf("RecommendedCertifications has %d entries, want 2", len(result.RecommendedCertifications))
	}
	if result.RecommendedCertifications[0].ID != "bci" {
		t.Errorf("first certification = %q, want bci", result.RecommendedCertifications[0].ID)
	}
	if result.RecommendedCertifications[1].Name != "OEKO-TEX" {
		t.Errorf("second certification = %q, want OEKO-TEX", result.RecommendedCertifications[1].Name)
	}
}

func TestAnalyzeUnresolvedCertificationPlaceholder(t *testing.T) {
	db := &catalog.MaterialsDatabase{
		Materials: []catalog.Material{
			{
				ID:                  "hemp",
				Name:                "Cáñamo",
				Category:            "Natural",
				SustainabilityScore: catalog.SustainabilityScore{Total: 9},
				Certifications:      []string{"gots"},
			},
		},
	}

	result := Analyze([]extraction.MaterialComposition{
		{MaterialID: "hemp", Percentage: 100},
	}, db)

	if len(result.RecommendedCertifications) != 1 {
		t.Fatalf("RecommendedCertifications has %d entries, want 1", len(result.RecommendedCertifications))
	}
	cert := result.RecommendedCertifications[0]
	if cert.ID != "gots" || cert.Name != "Unknown" || cert.FullName != "Unknown" {
		t.Errorf("placeholder certification = %+v", cert)
	}
}

func TestAnalyzeStableOrderOnTies(t *testing.T) {
	db := catalog.FallbackDatabase()

	result := Analyze([]extraction.MaterialComposition{
		{MaterialID: "polyester", Percentage: 50},
		{MaterialID: "cotton_conv", Percentage: 50},
	}, db)

	if result.MaterialBreakdown[0].ID != "polyester" {
		t.Errorf("equal percentages reordered: first entry %q", result.MaterialBreakdown[0].ID)
	}
}

func TestAnalyzeCareInstructionsDeduplicated(t *testing.T) {
	db := catalog.FallbackDatabase()

	result := Analyze([]extraction.MaterialComposition{
		{MaterialID: "cotton_conv", Percentage: 50},
		{MaterialID: "polyester", Percentage: 50},
	}, db)

	want := []string{"Lavar en frío", "Secar al aire", "Evitar secadora"}
	if len(result.CareInstructions) != len(want) {
		t.Fatalf("CareInstructions = %v, want %v", result.CareInstructions, want)
	}
	for i, instruction := range want {
		if result.CareInstructions[i] != instruction {
			t.Errorf("CareInstructions[%d] = %q, want %q", i, result.CareInstructions[i], instruction)
		}
	}
}
