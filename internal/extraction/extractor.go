package extraction

import (
	"regexp"
	"strconv"
	"strings"
)

// MaterialComposition is a single extracted (material, percentage) pair.
type MaterialComposition struct {
	MaterialID string  `json:"material_id"`
	Percentage float64 `json:"percentage"`
}

// Tier records which extraction strategy produced a result, for metrics and
// debugging. Lower tiers are higher confidence.
type Tier string

const (
	TierPrimary     Tier = "primary"
	TierLineFilter  Tier = "line_filter"
	TierKeywordScan Tier = "keyword_scan"
	TierNone        Tier = "none"
)

// Label patterns, tried in order. The number/name sides differ per pattern.
var (
	percentFirstPattern = regexp.MustCompile(`(\d+)\s*%\s*([a-z]+(?:\s+[a-z]+)*)`)
	nameFirstPattern    = regexp.MustCompile(`([a-z]+(?:\s+[a-z]+)*)\s*:?\s*(\d+)\s*%`)
	nameColonPattern    = regexp.MustCompile(`([a-z]+(?:\s+[a-z]+)*)\s*:\s*(\d+)\s*%`)

	percentPattern    = regexp.MustCompile(`(\d+)\s*%`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// compositionHints mark lines likely to carry fabric composition.
var compositionHints = []string{"compos", "mater", "fabric"}

// commonKeywords back the last-resort scan: a folded keyword plus any
// percentage on the same line yields a single-entry composition.
var commonKeywords = []synonym{
	{"algodon", "cotton_conv"},
	{"cotton", "cotton_conv"},
	{"poliester", "polyester"},
	{"polyester", "polyester"},
	{"lana", "wool"},
	{"wool", "wool"},
	{"elastano", "elastane"},
	{"elastane", "elastane"},
	{"spandex", "elastane"},
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses raw OCR text into a composition list. An empty result is a
// valid outcome meaning "text present but no composition recognized".
func (e *Extractor) Extract(raw string) []MaterialComposition {
	materials, _ := e.ExtractWithTier(raw)
	return materials
}

// ExtractWithTier is Extract plus the strategy tier that produced the
// result, so callers can count fallback usage.
func (e *Extractor) ExtractWithTier(raw string) ([]MaterialComposition, Tier) {
	if strings.TrimSpace(raw) == "" {
		return []MaterialComposition{}, TierNone
	}

	materials := e.extractPrimary(preprocess(raw))
	if len(materials) > 0 {
		return materials, TierPrimary
	}

	if materials := e.extractFromCompositionLines(raw); len(materials) > 0 {
		return materials, TierLineFilter
	}

	if materials := e.extractByKeyword(raw); len(materials) > 0 {
		return materials, TierKeywordScan
	}

	return []MaterialComposition{}, TierNone
}

// preprocess lowercases, folds accents and collapses all whitespace and
// newlines to single spaces.
func preprocess(raw string) string {
	text := strings.ToLower(raw)
	text = strings.ReplaceAll(text, "\n", " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return foldAccents(text)
}

func (e *Extractor) extractPrimary(text string) []MaterialComposition {
	var materials []MaterialComposition

	patterns := []struct {
		re          *regexp.Regexp
		numberFirst bool
	}{
		{percentFirstPattern, true},
		{nameFirstPattern, false},
		{nameColonPattern, false},
	}

	for _, p := range patterns {
		for _, match := range p.re.FindAllStringSubmatch(text, -1) {
			var rawPercent, name string
			if p.numberFirst {
				rawPercent, name = match[1], match[2]
			} else {
				name, rawPercent = match[1], match[2]
			}

			percent, err := strconv.Atoi(rawPercent)
			if err != nil || percent <= 0 || percent > 100 {
				continue
			}

			materialID := NormalizeMaterialName(strings.TrimSpace(name))
			if hasMaterial(materials, materialID) {
				continue
			}

			materials = append(materials, MaterialComposition{
				MaterialID: materialID,
				Percentage: float64(percent),
			})
		}
	}

	return reconcile(materials)
}

// reconcile repairs near-100 sums by adjusting the dominant entry. Sums at
// or outside the (90,110) window are left untouched as a signal of
// unreliable extraction.
func reconcile(materials []MaterialComposition) []MaterialComposition {
	if len(materials) == 0 {
		return materials
	}

	var total float64
	for _, m := range materials {
		total += m.Percentage
	}

	if total == 100 || total <= 90 || total >= 110 {
		return materials
	}

	largest := 0
	for i, m := range materials {
		if m.Percentage > materials[largest].Percentage {
			largest = i
		}
	}
	materials[largest].Percentage += 100 - total

	return materials
}

// extractFromCompositionLines is fallback tier one: keep only lines that
// hint at composition, then re-run the primary pass on just those.
func (e *Extractor) extractFromCompositionLines(raw string) []MaterialComposition {
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lower := strings.ToLower(line)
		if containsAny(lower, compositionHints) || percentPattern.MatchString(line) {
			kept = append(kept, line)
		}
	}

	if len(kept) == 0 {
		return nil
	}
	return e.extractPrimary(preprocess(strings.Join(kept, "\n")))
}

// extractByKeyword is fallback tier two: the first line carrying both a
// known material keyword and a percentage yields a single-entry composition.
func (e *Extractor) extractByKeyword(raw string) []MaterialComposition {
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		folded := foldAccents(line)
		for _, kw := range commonKeywords {
			if !strings.Contains(folded, kw.key) {
				continue
			}
			match := percentPattern.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			percent, err := strconv.Atoi(match[1])
			if err != nil || percent <= 0 || percent > 100 {
				continue
			}
			return []MaterialComposition{{MaterialID: kw.id, Percentage: float64(percent)}}
		}
	}
	return nil
}

func hasMaterial(materials []MaterialComposition, id string) bool {
	for _, m := range materials {
		if m.MaterialID == id {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
