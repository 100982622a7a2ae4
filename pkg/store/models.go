package store

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// User is a registered user of the notebook client.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NormalizeEmail lowercases and trims an email, making it usable as a
// unique key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Note is a field-log entry of a user: where and when a fungus was found.
type Note struct {
	ID             string      `json:"id"`
	UserID         string      `json:"userId"`
	Date           *Date       `json:"date,omitempty"`
	Latitude       *Coordinate `json:"latitude,omitempty"`
	Longitude      *Coordinate `json:"longitude,omitempty"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Place          string      `json:"place"`
	SpeciesID      string      `json:"speciesId,omitempty"`
	ScientificName string      `json:"scientificName,omitempty"`
	VernacularName string      `json:"vernacularName,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// NoteUpdate is a partial update of a note. Nil fields are left untouched.
type NoteUpdate struct {
	Date           *Date       `json:"date"`
	Latitude       *Coordinate `json:"latitude"`
	Longitude      *Coordinate `json:"longitude"`
	Title          *string     `json:"title"`
	Description    *string     `json:"description"`
	Place          *string     `json:"place"`
	SpeciesID      *string     `json:"speciesId"`
	ScientificName *string     `json:"scientificName"`
	VernacularName *string     `json:"vernacularName"`
}

// UnmarshalJSON implements json.Unmarshaler. It also reads fecha, latitud
// and longitud, the keys sent by released notebook clients. English keys
// win when both are present.
func (nu *NoteUpdate) UnmarshalJSON(data []byte) error {
	type plain NoteUpdate
	var res plain
	if err := json.Unmarshal(data, &res); err != nil {
		return err
	}

	var legacy struct {
		Fecha    *Date       `json:"fecha"`
		Latitud  *Coordinate `json:"latitud"`
		Longitud *Coordinate `json:"longitud"`
	}
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}
	if res.Date == nil {
		res.Date = legacy.Fecha
	}
	if res.Latitude == nil {
		res.Latitude = legacy.Latitud
	}
	if res.Longitude == nil {
		res.Longitude = legacy.Longitud
	}

	*nu = NoteUpdate(res)
	return nil
}

// IsEmpty returns true if the update changes nothing.
func (nu NoteUpdate) IsEmpty() bool {
	return nu == NoteUpdate{}
}

// Apply copies set fields of the update to the note and bumps UpdatedAt.
func (n *Note) Apply(nu NoteUpdate, now time.Time) {
	if nu.Date != nil {
		n.Date = nu.Date
	}
	if nu.Latitude != nil {
		n.Latitude = nu.Latitude
	}
	if nu.Longitude != nil {
		n.Longitude = nu.Longitude
	}
	setString(&n.Title, nu.Title)
	setString(&n.Description, nu.Description)
	setString(&n.Place, nu.Place)
	setString(&n.SpeciesID, nu.SpeciesID)
	setString(&n.ScientificName, nu.ScientificName)
	setString(&n.VernacularName, nu.VernacularName)
	n.UpdatedAt = now
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
