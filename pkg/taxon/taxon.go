// Package taxon contains the domain model of fungal species ingestion:
// source records, the shared taxon filter, the Spanish vernacular resolver
// and the species document written to storage.
package taxon

import "strings"

// Source names of species documents.
const (
	SourceTSV  = "tsv"
	SourceGBIF = "gbif"
	SourceAPI  = "api"
)

// TaxonRecord is one row of a taxonomic backbone file.
type TaxonRecord struct {
	TaxonID         string
	Kingdom         string
	Phylum          string
	Class           string
	Order           string
	Family          string
	Genus           string
	TaxonRank       string
	GenericName     string
	SpecificEpithet string
	ScientificName  string
}

// VernacularRecord is one row of a vernacular names file.
type VernacularRecord struct {
	TaxonID        string
	Language       string
	VernacularName string
}

// NewTaxonRecord creates a TaxonRecord from a header-keyed row. Missing
// columns become empty fields. Values are trimmed.
func NewTaxonRecord(row map[string]string) TaxonRecord {
	return TaxonRecord{
		TaxonID:         field(row, "taxonID"),
		Kingdom:         field(row, "kingdom"),
		Phylum:          field(row, "phylum"),
		Class:           field(row, "class"),
		Order:           field(row, "order"),
		Family:          field(row, "family"),
		Genus:           field(row, "genus"),
		TaxonRank:       field(row, "taxonRank"),
		GenericName:     field(row, "genericName"),
		SpecificEpithet: field(row, "specificEpithet"),
		ScientificName:  field(row, "scientificName"),
	}
}

// NewVernacularRecord creates a VernacularRecord from a header-keyed row.
func NewVernacularRecord(row map[string]string) VernacularRecord {
	return VernacularRecord{
		TaxonID:        field(row, "taxonID"),
		Language:       field(row, "language"),
		VernacularName: row["vernacularName"],
	}
}

// Binomial returns "genericName specificEpithet".
func (tr TaxonRecord) Binomial() string {
	return strings.TrimSpace(tr.GenericName + " " + tr.SpecificEpithet)
}

func field(row map[string]string, key string) string {
	return strings.TrimSpace(row[key])
}
