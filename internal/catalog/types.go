package catalog

import (
	"encoding/json"
	"strings"
)

// Material is one catalog entry of the reference dataset.
type Material struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	Category            string              `json:"category"`
	Description         string              `json:"description"`
	EnvironmentalImpact EnvironmentalImpact `json:"environmentalImpact"`
	SustainabilityScore SustainabilityScore `json:"sustainabilityScore"`
	CareInstructions    []string            `json:"careInstructions"`
	Certifications      []string            `json:"certifications"`
}

type EnvironmentalImpact struct {
	WaterUsage         WaterUsage   `json:"waterUsage"`
	CO2Emissions       CO2Emissions `json:"co2Emissions"`
	ChemicalUse        string       `json:"chemicalUse"`
	BiodegradationTime string       `json:"biodegradationTime"`
	Renewability       string       `json:"renewability"`
}

type WaterUsage struct {
	Value FlexibleValue `json:"value"`
	Unit  string        `json:"unit"`
}

type CO2Emissions struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// SustainabilityScore carries the 0-10 composite plus five 0-2 sub-factors.
type SustainabilityScore struct {
	Total          float64 `json:"total"`
	Water          float64 `json:"water"`
	CO2            float64 `json:"co2"`
	Chemicals      float64 `json:"chemicals"`
	Biodegradation float64 `json:"biodegradation"`
	Renewability   float64 `json:"renewability"`
}

type Certification struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"fullName"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

type MaterialCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SustainabilityFactor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Importance  string `json:"importance"`
	Unit        string `json:"unit"`
}

// MaterialsDatabase is the loaded reference dataset. It is treated as
// read-only for the duration of an analysis.
type MaterialsDatabase struct {
	Materials             []Material             `json:"materials"`
	Certifications        []Certification        `json:"certifications"`
	MaterialCategories    []MaterialCategory     `json:"materialCategories"`
	SustainabilityFactors []SustainabilityFactor `json:"sustainabilityFactors"`
}

func (db *MaterialsDatabase) FindByID(id string) (*Material, bool) {
	for i := range db.Materials {
		if db.Materials[i].ID == id {
			return &db.Materials[i], true
		}
	}
	return nil, false
}

// FindByName matches the display name exactly, ignoring case. Fuzzy name
// resolution lives in the extraction normalizer, not here.
func (db *MaterialsDatabase) FindByName(name string) (*Material, bool) {
	for i := range db.Materials {
		if strings.EqualFold(db.Materials[i].Name, name) {
			return &db.Materials[i], true
		}
	}
	return nil, false
}

func (db *MaterialsDatabase) FindCertification(id string) (*Certification, bool) {
	for i := range db.Certifications {
		if db.Certifications[i].ID == id {
			return &db.Certifications[i], true
		}
	}
	return nil, false
}

// FlexibleValue holds a dataset value that may be numeric or a free-text
// marker such as "variable". Non-numeric values are excluded from weighted
// sums but still render as text.
type FlexibleValue struct {
	number  float64
	numeric bool
	text    string
}

func NumericValue(v float64) FlexibleValue {
	return FlexibleValue{number: v, numeric: true}
}

func TextValue(s string) FlexibleValue {
	return FlexibleValue{text: s}
}

func (v FlexibleValue) Float() (float64, bool) {
	return v.number, v.numeric
}

func (v FlexibleValue) String() string {
	if v.numeric {
		num, _ := json.Marshal(v.number)
		return string(num)
	}
	return v.text
}

func (v *FlexibleValue) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = FlexibleValue{number: num, numeric: true}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*v = FlexibleValue{text: text}
	return nil
}

func (v FlexibleValue) MarshalJSON() ([]byte, error) {
	if v.numeric {
		return json.Marshal(v.number)
	}
	return json.Marshal(v.text)
}
