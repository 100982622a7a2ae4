package iopg

import (
	"time"

	"github.com/gnames/fungidb/pkg/store"
	"github.com/gnames/fungidb/pkg/taxon"
)

// speciesColumns are columns of the species table in the order used by
// bulk statements.
var speciesColumns = []string{
	"id", "scientific_name", "canonical_name", "vernacular_name",
	"scientific_name_norm", "vernacular_name_norm", "kingdom", "phylum",
	"class", "taxon_order", "family", "genus", "rank", "source",
}

type speciesRow struct {
	ID                 string  `gorm:"primaryKey;type:varchar(100)"`
	ScientificName     string  `gorm:"type:text;not null"`
	CanonicalName      string  `gorm:"type:varchar(255)"`
	VernacularName     *string `gorm:"type:text"`
	ScientificNameNorm string  `gorm:"type:text;index"`
	VernacularNameNorm string  `gorm:"type:text;index"`
	Kingdom            string  `gorm:"type:varchar(100)"`
	Phylum             string  `gorm:"type:varchar(100)"`
	Class              string  `gorm:"type:varchar(100)"`
	Order              string  `gorm:"column:taxon_order;type:varchar(100)"`
	Family             string  `gorm:"type:varchar(100)"`
	Genus              string  `gorm:"type:varchar(100)"`
	Rank               string  `gorm:"type:varchar(50)"`
	Source             string  `gorm:"type:varchar(20)"`
}

func (speciesRow) TableName() string {
	return "species"
}

func speciesArgs(sp taxon.Species) []any {
	return []any{
		sp.ID, sp.ScientificName, sp.CanonicalName, sp.VernacularName,
		sp.ScientificNameNorm, sp.VernacularNameNorm, sp.Kingdom, sp.Phylum,
		sp.Class, sp.Order, sp.Family, sp.Genus, sp.Rank, sp.Source,
	}
}

func fromSpeciesRow(r speciesRow) taxon.Species {
	return taxon.Species{
		ID:                 r.ID,
		ScientificName:     r.ScientificName,
		CanonicalName:      r.CanonicalName,
		VernacularName:     r.VernacularName,
		ScientificNameNorm: r.ScientificNameNorm,
		VernacularNameNorm: r.VernacularNameNorm,
		Kingdom:            r.Kingdom,
		Phylum:             r.Phylum,
		Class:              r.Class,
		Order:              r.Order,
		Family:             r.Family,
		Genus:              r.Genus,
		Rank:               r.Rank,
		Source:             r.Source,
	}
}

type userRow struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	Name         string `gorm:"type:varchar(255)"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time
}

func (userRow) TableName() string {
	return "users"
}

func (u userRow) toUser() store.User {
	return store.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

type noteRow struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	UserID         string `gorm:"type:uuid;index:idx_notes_user_created,priority:1"`
	Date           *time.Time
	Latitude       *float64
	Longitude      *float64
	Title          string    `gorm:"type:text"`
	Description    string    `gorm:"type:text"`
	Place          string    `gorm:"type:text"`
	SpeciesID      string    `gorm:"type:varchar(100)"`
	ScientificName string    `gorm:"type:text"`
	VernacularName string    `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"index:idx_notes_user_created,priority:2,sort:desc"`
	UpdatedAt      time.Time
}

func (noteRow) TableName() string {
	return "notes"
}

func toNoteRow(n store.Note) noteRow {
	res := noteRow{
		ID:             n.ID,
		UserID:         n.UserID,
		Title:          n.Title,
		Description:    n.Description,
		Place:          n.Place,
		SpeciesID:      n.SpeciesID,
		ScientificName: n.ScientificName,
		VernacularName: n.VernacularName,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}
	if n.Date != nil {
		t := n.Date.Time
		res.Date = &t
	}
	if n.Latitude != nil {
		f := n.Latitude.Float()
		res.Latitude = &f
	}
	if n.Longitude != nil {
		f := n.Longitude.Float()
		res.Longitude = &f
	}
	return res
}

func (r noteRow) toNote() store.Note {
	res := store.Note{
		ID:             r.ID,
		UserID:         r.UserID,
		Title:          r.Title,
		Description:    r.Description,
		Place:          r.Place,
		SpeciesID:      r.SpeciesID,
		ScientificName: r.ScientificName,
		VernacularName: r.VernacularName,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.Date != nil {
		res.Date = store.NewDate(*r.Date)
	}
	if r.Latitude != nil {
		res.Latitude = store.NewCoordinate(*r.Latitude)
	}
	if r.Longitude != nil {
		res.Longitude = store.NewCoordinate(*r.Longitude)
	}
	return res
}
