package normalize_test

import (
	"testing"

	"github.com/gnames/fungidb/pkg/normalize"
	"github.com/stretchr/testify/assert"
)

// TestNormalize verifies search keys of scientific and vernacular names.
func TestNormalize(t *testing.T) {
	tests := []struct {
		msg string
		in  string
		out string
	}{
		{"authors", "Agaricus bisporus (Lange) Imbach", "agaricus bisporus lange imbach"},
		{"diacritics", "Champiñón", "champinon"},
		{"accents", "Níscalo de pino", "niscalo de pino"},
		{"empty", "", ""},
		{"only punctuation", " ..;;-- ", ""},
		{"tabs and newlines", "  Boletus\t\nedulis  ", "boletus edulis"},
		{"digits kept", "Strain 123-B", "strain 123 b"},
		{"hybrid sign", "Amanita × muscaria", "amanita muscaria"},
		{"ligature dropped", "Æcidium", "cidium"},
		{"cedilla", "Cèpe de Bordeaux Ça", "cepe de bordeaux ca"},
		{"apostrophe", "Trompeta d'os", "trompeta d os"},
		{"non latin", "Гриб Amanita", "amanita"},
		{"umlaut", "Pilzkopf Müller", "pilzkopf muller"},
	}

	for _, v := range tests {
		assert.Equal(t, v.out, normalize.Normalize(v.in), v.msg)
	}
}

// TestNormalize_Idempotent verifies normalizing a key again changes nothing.
func TestNormalize_Idempotent(t *testing.T) {
	names := []string{
		"Agaricus bisporus (J.E. Lange) Imbach",
		"Seta de cardo, CARDO",
		"Lactarius deliciosus (L.) Gray 1821",
		"  ",
		"Ñ-ñ_ñ",
	}
	for _, v := range names {
		once := normalize.Normalize(v)
		assert.Equal(t, once, normalize.Normalize(once), v)
	}
}

// TestPtr verifies nullable names.
func TestPtr(t *testing.T) {
	name := "Rebozuelo"
	assert.Equal(t, "rebozuelo", normalize.Ptr(&name))
	assert.Equal(t, "", normalize.Ptr(nil))
}
