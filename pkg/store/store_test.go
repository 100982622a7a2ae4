package store_test

import (
	"testing"
	"time"

	"github.com/gnames/fungidb/pkg/store"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCoordinate verifies numbers and numeric strings are accepted.
func TestCoordinate(t *testing.T) {
	tests := []struct {
		msg  string
		in   string
		want float64
		err  bool
	}{
		{"number", `{"latitude": 40.4168}`, 40.4168, false},
		{"string", `{"latitude": "-3.7038"}`, -3.7038, false},
		{"comma decimal", `{"latitude": " 19,43 "}`, 19.43, false},
		{"integer", `{"latitude": 7}`, 7, false},
		{"not a number", `{"latitude": "norte"}`, 0, true},
		{"bool", `{"latitude": true}`, 0, true},
	}

	for _, v := range tests {
		var n store.Note
		err := json.Unmarshal([]byte(v.in), &n)
		if v.err {
			assert.Error(t, err, v.msg)
			continue
		}
		require.NoError(t, err, v.msg)
		require.NotNil(t, n.Latitude, v.msg)
		assert.InDelta(t, v.want, n.Latitude.Float(), 1e-9, v.msg)
	}

	var n store.Note
	require.NoError(t, json.Unmarshal([]byte(`{"latitude": null}`), &n))
	assert.Nil(t, n.Latitude)
}

// TestDate verifies RFC 3339 and short dates.
func TestDate(t *testing.T) {
	d, err := store.ParseDate("2024-10-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 10, 5, 0, 0, 0, 0, time.UTC), d.Time)

	d, err = store.ParseDate("2024-10-05T08:30:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, 13, d.UTC().Hour())

	_, err = store.ParseDate("05/10/2024")
	assert.Error(t, err)

	var n store.Note
	err = json.Unmarshal([]byte(`{"date":"2023-11-02"}`), &n)
	require.NoError(t, err)
	require.NotNil(t, n.Date)

	out, err := json.Marshal(n.Date)
	require.NoError(t, err)
	assert.Equal(t, `"2023-11-02T00:00:00Z"`, string(out))
}

// TestNoteApply verifies partial updates.
func TestNoteApply(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	n := store.Note{
		ID:        "n1",
		UserID:    "u1",
		Title:     "Níscalos",
		Place:     "Pinar",
		Latitude:  store.NewCoordinate(40),
		CreatedAt: created,
		UpdatedAt: created,
	}

	title := "Níscalos junto al arroyo"
	upd := store.NoteUpdate{Title: &title, Longitude: store.NewCoordinate(-3.5)}
	assert.False(t, upd.IsEmpty())
	assert.True(t, store.NoteUpdate{}.IsEmpty())

	now := created.Add(time.Hour)
	n.Apply(upd, now)
	assert.Equal(t, title, n.Title)
	assert.Equal(t, "Pinar", n.Place)
	assert.InDelta(t, 40, n.Latitude.Float(), 1e-9)
	assert.InDelta(t, -3.5, n.Longitude.Float(), 1e-9)
	assert.Equal(t, created, n.CreatedAt)
	assert.Equal(t, now, n.UpdatedAt)
}

// TestNoteUpdateJSON verifies legacy keys of notebook clients.
func TestNoteUpdateJSON(t *testing.T) {
	tests := []struct {
		msg  string
		in   string
		lat  float64
		date string
	}{
		{"english", `{"latitude":1.5,"date":"2025-10-12"}`, 1.5, "2025-10-12"},
		{"spanish", `{"latitud":"2,5","fecha":"2025-10-13"}`, 2.5, "2025-10-13"},
		{"both", `{"latitude":1.5,"latitud":2.5,"fecha":"2025-10-13"}`,
			1.5, "2025-10-13"},
	}

	for _, v := range tests {
		var nu store.NoteUpdate
		err := json.Unmarshal([]byte(v.in), &nu)
		require.NoError(t, err, v.msg)
		require.NotNil(t, nu.Latitude, v.msg)
		assert.InDelta(t, v.lat, nu.Latitude.Float(), 1e-9, v.msg)
		require.NotNil(t, nu.Date, v.msg)
		assert.Equal(t, v.date, nu.Date.Format(store.DateLayout), v.msg)
		assert.Nil(t, nu.Longitude, v.msg)
	}

	var nu store.NoteUpdate
	err := json.Unmarshal([]byte(`{"title":"Níscalos"}`), &nu)
	require.NoError(t, err)
	require.NotNil(t, nu.Title)
	assert.Equal(t, "Níscalos", *nu.Title)
	assert.Nil(t, nu.Date)

	err = json.Unmarshal([]byte(`{"latitud":"north"}`), &nu)
	assert.Error(t, err)
}

// TestUserJSON verifies the password hash never reaches JSON.
func TestUserJSON(t *testing.T) {
	u := store.User{ID: "1", Name: "Ana", Email: "ana@example.org", PasswordHash: "$2a$secret"}
	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret")
	assert.Equal(t, "ana@example.org", store.NormalizeEmail("  Ana@Example.ORG "))
}

// TestWriteResultAdd verifies summing of bulk results.
func TestWriteResultAdd(t *testing.T) {
	a := store.WriteResult{Inserted: 2, Duplicates: 1}
	b := store.WriteResult{Inserted: 1, Updated: 4}
	assert.Equal(t, store.WriteResult{Inserted: 3, Updated: 4, Duplicates: 1}, a.Add(b))
}
