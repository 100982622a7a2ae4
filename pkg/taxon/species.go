package taxon

import (
	"github.com/gnames/fungidb/pkg/normalize"
)

// Species is the document stored for every imported taxon. TSV import and
// GBIF fetch both produce it.
type Species struct {
	ID                 string  `json:"id"                 bson:"_id"`
	ScientificName     string  `json:"scientificName"     bson:"scientificName"`
	CanonicalName      string  `json:"canonicalName"      bson:"canonicalName"`
	VernacularName     *string `json:"vernacularName"     bson:"vernacularName"`
	ScientificNameNorm string  `json:"scientificNameNorm" bson:"scientificNameNorm"`
	VernacularNameNorm string  `json:"vernacularNameNorm" bson:"vernacularNameNorm"`
	Kingdom            string  `json:"kingdom,omitempty"  bson:"kingdom,omitempty"`
	Phylum             string  `json:"phylum,omitempty"   bson:"phylum,omitempty"`
	Class              string  `json:"class,omitempty"    bson:"class,omitempty"`
	Order              string  `json:"order,omitempty"    bson:"order,omitempty"`
	Family             string  `json:"family,omitempty"   bson:"family,omitempty"`
	Genus              string  `json:"genus,omitempty"    bson:"genus,omitempty"`
	Rank               string  `json:"rank,omitempty"     bson:"rank,omitempty"`
	Source             string  `json:"source,omitempty"   bson:"source,omitempty"`
}

// NewSpecies builds a document out of an accepted record. Empty canonical
// gets replaced by the binomial of the record.
func NewSpecies(
	tr TaxonRecord,
	canonical string,
	vernacular *string,
	source string,
) Species {
	if canonical == "" {
		canonical = tr.Binomial()
	}
	res := Species{
		ID:             tr.TaxonID,
		ScientificName: tr.ScientificName,
		CanonicalName:  canonical,
		VernacularName: vernacular,
		Kingdom:        tr.Kingdom,
		Phylum:         tr.Phylum,
		Class:          tr.Class,
		Order:          tr.Order,
		Family:         tr.Family,
		Genus:          tr.Genus,
		Rank:           tr.TaxonRank,
		Source:         source,
	}
	res.Normalize()
	return res
}

// Normalize recomputes search keys from names.
func (s *Species) Normalize() {
	s.ScientificNameNorm = normalize.Normalize(s.ScientificName)
	s.VernacularNameNorm = normalize.Ptr(s.VernacularName)
}
