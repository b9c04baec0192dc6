package analysis

import "testing"

func TestRateScore(t *testing.T) {
	tests := []struct {
		score     float64
		wantLabel string
		wantTier  string
		wantColor string
	}{
		{10, "Excelente", "excellent", "green"},
		{8, "Excelente", "excellent", "green"},
		{7.9, "Bueno", "good", "lime"},
		{6.5, "Bueno", "good", "lime"},
		{6.4, "Aceptable", "acceptable", "yellow"},
		{5, "Aceptable", "acceptable", "yellow"},
		{4.9, "Regular", "moderate", "orange"},
		{3, "Regular", "moderate", "orange"},
		{2.9, "Deficiente", "poor", "red"},
		{0, "Deficiente", "poor", "red"},
	}

	for _, tt := range tests {
		rating := RateScore(tt.score)
		if rating.Label != tt.wantLabel {
			t.Errorf("RateScore(%v).Label = %q, want %q", tt.score, rating.Label, tt.wantLabel)
		}
		if rating.Tier != tt.wantTier {
			t.Errorf("RateScore(%v).Tier = %q, want %q", tt.score, rating.Tier, tt.wantTier)
		}
		if rating.Color != tt.wantColor {
			t.Errorf("RateScore(%v).Color = %q, want %q", tt.score, rating.Color, tt.wantColor)
		}
		if rating.Description == "" {
			t.Errorf("RateScore(%v) has empty description", tt.score)
		}
	}
}
