package extraction

import "testing"

func TestNormalizeMaterialName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spanish accented", "Algodón", "cotton_conv"},
		{"spanish unaccented", "algodon", "cotton_conv"},
		{"uppercase", "ALGODÓN", "cotton_conv"},
		{"english", "Cotton", "cotton_conv"},
		{"organic beats plain", "Algodón Orgánico", "cotton_org"},
		{"organic english", "organic cotton", "cotton_org"},
		{"recycled polyester", "Poliéster Reciclado", "recycled_polyester"},
		{"brand synonym", "Lycra", "elastane"},
		{"tencel", "Tencel", "lyocell"},
		{"rayon maps to viscose", "Rayón", "viscose"},
		{"bamboo", "Bambú", "bamboo_viscose"},
		{"hemp spanish", "Cáñamo", "hemp"},
		{"partial match", "algodón peinado", "cotton_conv"},
		{"unknown slugified", "Cuero Sintético", "cuero_sintetico"},
		{"empty", "", "unknown"},
		{"whitespace only", "   ", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeMaterialName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeMaterialName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeMaterialNameIdempotent(t *testing.T) {
	inputs := []string{"Algodón", "polyester", "Lycra", "Cuero"}

	for _, input := range inputs {
		once := NormalizeMaterialName(input)
		twice := NormalizeMaterialName(once)
		if once != twice {
			t.Errorf("normalization not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestFoldAccents(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Algodón", "algodon"},
		{"POLIÉSTER", "poliester"},
		{"  Cáñamo  ", "canamo"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := foldAccents(tt.input); got != tt.want {
			t.Errorf("foldAccents(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
