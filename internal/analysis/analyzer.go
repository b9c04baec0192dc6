package analysis

import (
	"math"
	"sort"

	"github.com/ecolabel/backend/internal/catalog"
	"github.com/ecolabel/backend/internal/extraction"
)

// Result is the derived analysis of one composition against the catalog.
type Result struct {
	TotalScore                float64                 `json:"total_score"`
	MaterialBreakdown         []BreakdownEntry        `json:"material_breakdown"`
	EnvironmentalImpact       ImpactSummary           `json:"environmental_impact"`
	CareInstructions          []string                `json:"care_instructions"`
	RecommendedCertifications []catalog.Certification `json:"recommended_certifications"`
	UnknownMaterials          []string                `json:"unknown_materials,omitempty"`
}

type BreakdownEntry struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Category   string  `json:"category"`
	Score      float64 `json:"score"`
}

type ImpactSummary struct {
	WaterUsage         ImpactValue `json:"water_usage"`
	CO2Emissions       ImpactValue `json:"co2_emissions"`
	ChemicalUse        string      `json:"chemical_use"`
	BiodegradationTime string      `json:"biodegradation_time"`
}

type ImpactValue struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Analyze computes the weighted sustainability score and environmental
// summary for a composition. Entries whose material ID is absent from the
// catalog are skipped from scoring but reported in UnknownMaterials, so a
// partially valid composition still analyzes.
func Analyze(materials []extraction.MaterialComposition, db *catalog.MaterialsDatabase) *Result {
	var totalScore, totalWater, totalCO2 float64
	var breakdown []BreakdownEntry
	var unknown []string
	var waterUnit string

	careSeen := map[string]bool{}
	var care []string
	certSeen := map[string]bool{}
	var certIDs []string

	for _, entry := range materials {
		material, ok := db.FindByID(entry.MaterialID)
		if !ok {
			unknown = append(unknown, entry.MaterialID)
			continue
		}

		weight := entry.Percentage / 100
		totalScore += material.SustainabilityScore.Total * weight

		breakdown = append(breakdown, BreakdownEntry{
			ID:         material.ID,
			Name:       material.Name,
			Percentage: entry.Percentage,
			Category:   material.Category,
			Score:      material.SustainabilityScore.Total,
		})

		if value, numeric := material.EnvironmentalImpact.WaterUsage.Value.Float(); numeric {
			totalWater += value * weight
		}
		totalCO2 += material.EnvironmentalImpact.CO2Emissions.Value * weight

		if waterUnit == "" {
			waterUnit = material.EnvironmentalImpact.WaterUsage.Unit
		}

		for _, instruction := range material.CareInstructions {
			if !careSeen[instruction] {
				careSeen[instruction] = true
				care = append(care, instruction)
			}
		}
		for _, certID := range material.Certifications {
			if !certSeen[certID] {
				certSeen[certID] = true
				certIDs = append(certIDs, certID)
			}
		}
	}

	if waterUnit == "" {
		waterUnit = "litros/kg"
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Percentage > breakdown[j].Percentage
	})

	certifications := make([]catalog.Certification, 0, len(certIDs))
	for _, certID := range certIDs {
		if cert, ok := db.FindCertification(certID); ok {
			certifications = append(certifications, *cert)
			continue
		}
		// Unresolved IDs keep a placeholder so the data gap stays visible.
		certifications = append(certifications, catalog.Certification{
			ID:       certID,
			Name:     "Unknown",
			FullName: "Unknown",
		})
	}

	if care == nil {
		care = []string{}
	}
	if breakdown == nil {
		breakdown = []BreakdownEntry{}
	}

	return &Result{
		TotalScore:        round1(totalScore),
		MaterialBreakdown: breakdown,
		EnvironmentalImpact: ImpactSummary{
			WaterUsage:         ImpactValue{Value: math.Round(totalWater), Unit: waterUnit},
			CO2Emissions:       ImpactValue{Value: round1(totalCO2), Unit: "kg CO₂e/kg"},
			ChemicalUse:        "Varies",
			BiodegradationTime: "Varies",
		},
		CareInstructions:          care,
		RecommendedCertifications: certifications,
		UnknownMaterials:          unknown,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
