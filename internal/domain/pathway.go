package domain

import "strings"

// Pathway identifies a biomass conversion process.
type Pathway string

const (
	Fermentation Pathway = "fermentation"
	HTL          Pathway = "htl"
	Combustion   Pathway = "combustion"
)

// Pathways returns every supported pathway in display order.
func Pathways() []Pathway {
	return []Pathway{Fermentation, HTL, Combustion}
}

// ParsePathway matches s case-insensitively against the supported pathways.
func ParsePathway(s string) (Pathway, bool) {
	p := Pathway(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Pathways() {
		if p == known {
			return p, true
		}
	}
	return "", false
}
