package taxon

import (
	"strings"

	"github.com/gnames/gnlib"
)

var spanishTags = map[string]struct{}{
	"es":         {},
	"spa":        {},
	"spanish":    {},
	"es-es":      {},
	"es-mx":      {},
	"es-ar":      {},
	"es-cl":      {},
	"es-co":      {},
	"es-pe":      {},
	"es-ec":      {},
	"es-uy":      {},
	"español":    {},
	"castellano": {},
}

// IsSpanish returns true if a language tag denotes Spanish.
func IsSpanish(lang string) bool {
	_, ok := spanishTags[strings.ToLower(strings.TrimSpace(lang))]
	return ok
}

// IsEnglish returns true if a language tag denotes English.
func IsEnglish(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "en", "eng", "english":
		return true
	}
	return false
}

// CleanName repairs broken UTF-8 and trims a vernacular name.
func CleanName(name string) string {
	return strings.TrimSpace(gnlib.FixUtf8(name))
}

// ValidSet contains taxonIDs of accepted taxa. It is read-only after the
// first pass.
type ValidSet map[string]struct{}

// Add inserts a taxonID.
func (vs ValidSet) Add(id string) {
	vs[id] = struct{}{}
}

// Has returns true if the taxonID was accepted.
func (vs ValidSet) Has(id string) bool {
	_, ok := vs[id]
	return ok
}

// VernacularMap maps taxonID to its Spanish vernacular name.
type VernacularMap map[string]string

// Name returns a vernacular name of a taxon or nil.
func (vm VernacularMap) Name(id string) *string {
	if name, ok := vm[id]; ok {
		return &name
	}
	return nil
}

// Resolver collects Spanish vernacular names of valid taxa. The first
// accepted name of a taxon wins, later ones are ignored.
type Resolver struct {
	valid ValidSet
	names VernacularMap
}

// NewResolver creates a Resolver restricted to the given taxa.
func NewResolver(valid ValidSet) *Resolver {
	return &Resolver{
		valid: valid,
		names: make(VernacularMap),
	}
}

// Add offers a record to the resolver and returns true if it was stored.
func (r *Resolver) Add(vr VernacularRecord) bool {
	if !IsSpanish(vr.Language) || !r.valid.Has(vr.TaxonID) {
		return false
	}
	if _, ok := r.names[vr.TaxonID]; ok {
		return false
	}
	name := CleanName(vr.VernacularName)
	if name == "" {
		return false
	}
	r.names[vr.TaxonID] = name
	return true
}

// Map returns collected names.
func (r *Resolver) Map() VernacularMap {
	return r.names
}
