package catalog

// FallbackDatabase is the minimal hardcoded catalog used when the reference
// dataset cannot be loaded. It keeps analysis non-fatal but is a degraded
// mode: callers must mark results produced from it as such.
func FallbackDatabase() *MaterialsDatabase {
	return &MaterialsDatabase{
		Materials: []Material{
			{
				ID:          "cotton_conv",
				Name:        "Algodón convencional",
				Category:    "Natural",
				Description: "Fibra natural de algodón.",
				EnvironmentalImpact: EnvironmentalImpact{
					WaterUsage:         WaterUsage{Value: NumericValue(10000), Unit: "litros/kg"},
					CO2Emissions:       CO2Emissions{Value: 5.5, Unit: "kg CO₂e/kg"},
					ChemicalUse:        "Alto",
					BiodegradationTime: "1-5 años",
					Renewability:       "Renovable con impacto moderado",
				},
				SustainabilityScore: SustainabilityScore{
					Total:          4.5,
					Water:          0,
					CO2:            1,
					Chemicals:      0.5,
					Biodegradation: 2,
					Renewability:   1,
				},
				CareInstructions: []string{"Lavar en frío", "Secar al aire"},
				Certifications:   []string{"bci", "oeko"},
			},
			{
				ID:          "polyester",
				Name:        "Poliéster",
				Category:    "Sintético",
				Description: "Fibra sintética derivada del petróleo.",
				EnvironmentalImpact: EnvironmentalImpact{
					WaterUsage:         WaterUsage{Value: NumericValue(10), Unit: "litros/kg"},
					CO2Emissions:       CO2Emissions{Value: 9.5, Unit: "kg CO₂e/kg"},
					ChemicalUse:        "Alto",
					BiodegradationTime: "20-200 años",
					Renewability:       "No renovable",
				},
				SustainabilityScore: SustainabilityScore{
					Total:          3.5,
					Water:          2,
					CO2:            0.5,
					Chemicals:      0.5,
					Biodegradation: 0.5,
					Renewability:   0,
				},
				CareInstructions: []string{"Lavar en frío", "Evitar secadora"},
				Certifications:   []string{"oeko"},
			},
		},
		Certifications: []Certification{
			{
				ID:          "oeko",
				Name:        "OEKO-TEX",
				FullName:    "OEKO-TEX Standard 100",
				Description: "Certifica que los textiles están libres de sustancias nocivas.",
				Website:     "https://www.oeko-tex.com/",
			},
			{
				ID:          "bci",
				Name:        "BCI",
				FullName:    "Better Cotton Initiative",
				Description: "Promueve mejores estándares en el cultivo de algodón.",
				Website:     "https://bettercotton.org/",
			},
		},
		MaterialCategories: []MaterialCategory{
			{
				ID:          "natural",
				Name:        "Natural",
				Description: "Fibras obtenidas directamente de plantas o animales.",
			},
			{
				ID:          "synthetic",
				Name:        "Sintético",
				Description: "Fibras creadas artificialmente a partir de polímeros.",
			},
		},
		SustainabilityFactors: []SustainabilityFactor{
			{
				ID:          "water",
				Name:        "Uso de agua",
				Description: "Cantidad de agua necesaria para producir la fibra.",
				Importance:  "Alto",
				Unit:        "litros/kg",
			},
			{
				ID:          "co2",
				Name:        "Emisiones de CO₂",
				Description: "Cantidad de gases de efecto invernadero emitidos.",
				Importance:  "Alto",
				Unit:        "kg CO₂e/kg",
			},
		},
	}
}
