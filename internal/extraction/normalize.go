package extraction

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// synonym maps one folded surface form of a material name to its canonical
// catalog ID. The table is an ordered slice, not a map, because the partial
// match scan must be deterministic: first entry wins.
type synonym struct {
	key string
	id  string
}

var synonymTable = []synonym{
	{"algodon", "cotton_conv"},
	{"cotton", "cotton_conv"},
	{"algodon organico", "cotton_org"},
	{"organic cotton", "cotton_org"},

	{"poliester", "polyester"},
	{"polyester", "polyester"},
	{"poliester reciclado", "recycled_polyester"},
	{"recycled polyester", "recycled_polyester"},

	{"nylon", "nylon"},
	{"nylon reciclado", "recycled_nylon"},
	{"recycled nylon", "recycled_nylon"},

	{"acrilico", "acrylic"},
	{"acrylic", "acrylic"},

	{"lana", "wool"},
	{"wool", "wool"},

	{"lino", "linen"},
	{"linen", "linen"},

	{"canamo", "hemp"},
	{"hemp", "hemp"},

	{"seda", "silk"},
	{"silk", "silk"},

	{"viscosa", "viscose"},
	{"viscose", "viscose"},
	{"rayon", "viscose"},

	{"lyocell", "lyocell"},
	{"tencel", "lyocell"},

	{"modal", "modal"},

	{"elastano", "elastane"},
	{"elastane", "elastane"},
	{"spandex", "elastane"},
	{"lycra", "elastane"},

	{"bambu", "bamboo_viscose"},
	{"bamboo", "bamboo_viscose"},
}

var synonymIndex = buildSynonymIndex()

func buildSynonymIndex() map[string]string {
	index := make(map[string]string, len(synonymTable))
	for _, s := range synonymTable {
		if _, exists := index[s.key]; !exists {
			index[s.key] = s.id
		}
	}
	return index
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldAccents lowercases, trims and strips combining diacritical marks so
// "Algodón" and "algodon" compare equal.
func foldAccents(s string) string {
	folded, _, err := transform.String(accentFolder, strings.TrimSpace(strings.ToLower(s)))
	if err != nil {
		return strings.TrimSpace(strings.ToLower(s))
	}
	return folded
}

// NormalizeMaterialName resolves a free-text material name to a canonical
// catalog ID. Exact synonym match wins, then bidirectional containment over
// the ordered table, then a slug of the folded input. Never fails: every
// name yields some ID, though the slug may not exist in the catalog.
func NormalizeMaterialName(name string) string {
	if name == "" {
		return "unknown"
	}

	folded := foldAccents(name)
	if folded == "" {
		return "unknown"
	}

	if id, ok := synonymIndex[folded]; ok {
		return id
	}

	for _, s := range synonymTable {
		if strings.Contains(folded, s.key) || strings.Contains(s.key, folded) {
			return s.id
		}
	}

	return strings.Join(strings.Fields(folded), "_")
}
