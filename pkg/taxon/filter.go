package taxon

import "strings"

var speciesRanks = map[string]struct{}{
	"species":               {},
	"subspecies":            {},
	"variety":               {},
	"form":                  {},
	"forma":                 {},
	"infraspecificname":     {},
	"infraspecific epithet": {},
}

var allowedPhyla = map[string]struct{}{
	"Basidiomycota": {},
	"Ascomycota":    {},
}

// classes with macroscopic, field-recognizable fruiting bodies
var allowedClasses = map[string]struct{}{
	"Agaricomycetes":  {},
	"Dacrymycetes":    {},
	"Tremellomycetes": {},
	"Pezizomycetes":   {},
	"Leotiomycetes":   {},
	"Sordariomycetes": {},
}

var allowedOrders = map[string]struct{}{
	"Agaricales":       {},
	"Amylocorticiales": {},
	"Atheliales":       {},
	"Auriculariales":   {},
	"Boletales":        {},
	"Cantharellales":   {},
	"Corticiales":      {},
	"Dacrymycetales":   {},
	"Geastrales":       {},
	"Gomphales":        {},
	"Helotiales":       {},
	"Hymenochaetales":  {},
	"Hypocreales":      {},
	"Hysterangiales":   {},
	"Leotiales":        {},
	"Pezizales":        {},
	"Phallales":        {},
	"Polyporales":      {},
	"Rhytismatales":    {},
	"Russulales":       {},
	"Sebacinales":      {},
	"Thelephorales":    {},
	"Trechisporales":   {},
	"Tremellales":      {},
	"Xylariales":       {},
}

// Filter decides whether a record denotes an accepted fungal species-level
// taxon. One Filter is created per run and shared by every pass that needs
// it, so the passes can never disagree.
type Filter struct {
	strict bool
}

// NewFilter creates a Filter. When strict is true, the phylum, class and
// order of a record must belong to the allowed sets.
func NewFilter(strict bool) Filter {
	return Filter{strict: strict}
}

// IsStrict reports if the rank gate is enabled.
func (f Filter) IsStrict() bool {
	return f.strict
}

// Accept returns true if the record passes all checks.
func (f Filter) Accept(tr TaxonRecord) bool {
	if tr.Kingdom != "Fungi" {
		return false
	}
	if _, ok := speciesRanks[strings.ToLower(tr.TaxonRank)]; !ok {
		return false
	}
	if tr.GenericName == "" || tr.SpecificEpithet == "" {
		return false
	}
	if isPlaceholder(tr.ScientificName) {
		return false
	}
	if !f.strict {
		return true
	}
	return inSet(allowedPhyla, tr.Phylum) &&
		inSet(allowedClasses, tr.Class) &&
		inSet(allowedOrders, tr.Order)
}

// isPlaceholder detects species hypotheses, OTUs and environmental samples.
func isPlaceholder(name string) bool {
	if strings.HasPrefix(name, "SH") || strings.HasPrefix(name, "OTU") {
		return true
	}
	low := strings.ToLower(name)
	return strings.Contains(low, "environmental") ||
		strings.Contains(low, "uncultured")
}

func inSet(set map[string]struct{}, s string) bool {
	_, ok := set[s]
	return ok
}
