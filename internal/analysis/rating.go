package analysis

// Severity is the discrete sustainability tier of a total score. The
// presentation layer maps tiers to visual styles; Color is the legacy
// label kept for API clients.
type Severity int

const (
	SeverityExcellent Severity = iota
	SeverityGood
	SeverityAcceptable
	SeverityModerate
	SeverityPoor
)

func (s Severity) String() string {
	switch s {
	case SeverityExcellent:
		return "excellent"
	case SeverityGood:
		return "good"
	case SeverityAcceptable:
		return "acceptable"
	case SeverityModerate:
		return "moderate"
	default:
		return "poor"
	}
}

func (s Severity) Color() string {
	switch s {
	case SeverityExcellent:
		return "green"
	case SeverityGood:
		return "lime"
	case SeverityAcceptable:
		return "yellow"
	case SeverityModerate:
		return "orange"
	default:
		return "red"
	}
}

type Rating struct {
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Severity    Severity `json:"-"`
	Tier        string   `json:"severity"`
	Color       string   `json:"color"`
}

// RateScore maps a 0-10 total score to its tier. Thresholds are evaluated
// top-down and are inclusive: exactly 8.0 is Excelente.
func RateScore(score float64) Rating {
	switch {
	case score >= 8:
		return newRating(SeverityExcellent, "Excelente",
			"Este producto está hecho con materiales altamente sostenibles y tiene un bajo impacto ambiental.")
	case score >= 6.5:
		return newRating(SeverityGood, "Bueno",
			"Este producto está hecho con materiales sostenibles y tiene un impacto ambiental moderado.")
	case score >= 5:
		return newRating(SeverityAcceptable, "Aceptable",
			"Este producto tiene un impacto ambiental aceptable, pero hay margen de mejora en la selección de materiales.")
	case score >= 3:
		return newRating(SeverityModerate, "Regular",
			"Este producto tiene un impacto ambiental significativo y se recomienda buscar alternativas más sostenibles.")
	default:
		return newRating(SeverityPoor, "Deficiente",
			"Este producto está hecho con materiales poco sostenibles y tiene un alto impacto ambiental.")
	}
}

func newRating(severity Severity, label, description string) Rating {
	return Rating{
		Label:       label,
		Description: description,
		Severity:    severity,
		Tier:        severity.String(),
		Color:       severity.Color(),
	}
}
