package iotesting

import (
	"context"
	"testing"

	"github.com/gnames/fungidb/pkg/store"
	"github.com/gnames/fungidb/pkg/taxon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Species creates a species document for tests.
func Species(id, name string, vernacular *string) taxon.Species {
	tr := taxon.TaxonRecord{
		TaxonID:        id,
		Kingdom:        "Fungi",
		TaxonRank:      "species",
		ScientificName: name,
	}
	return taxon.NewSpecies(tr, name, vernacular, taxon.SourceTSV)
}

// StoreContract runs behavior every store.Store implementation must share.
// The store must be empty. missingID is a well-formed id that does not
// exist in the store.
func StoreContract(t *testing.T, s store.Store, missingID string) {
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.Init(ctx), "Init is idempotent")
	require.NoError(t, s.Ping(ctx))

	t.Run("insert skips duplicates", func(t *testing.T) {
		champ := "Champiñón"
		docs := []taxon.Species{
			Species("c1", "Agaricus bisporus (J.E.Lange) Imbach", &champ),
			Species("c2", "Amanita muscaria (L.) Lam.", nil),
		}
		res, err := s.InsertSpecies(ctx, docs)
		require.NoError(t, err)
		assert.Equal(t, store.WriteResult{Inserted: 2}, res)

		docs = append(docs, Species("c3", "Boletus edulis Bull.", nil))
		res, err = s.InsertSpecies(ctx, docs)
		require.NoError(t, err)
		assert.Equal(t, store.WriteResult{Inserted: 1, Duplicates: 2}, res)

		count, err := s.CountSpecies(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("upsert replaces by id", func(t *testing.T) {
		name := "Matamoscas"
		docs := []taxon.Species{
			Species("c2", "Amanita muscaria (L.) Lam.", &name),
			Species("c4", "Cantharellus cibarius Fr.", nil),
		}
		res, err := s.UpsertSpecies(ctx, docs)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Inserted)
		assert.Equal(t, 1, res.Updated)

		found, err := s.SearchSpecies(ctx, "matamoscas", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "c2", found[0].ID)
	})

	t.Run("save single species", func(t *testing.T) {
		err := s.SaveSpecies(ctx, Species("c5", "Morchella esculenta (L.) Pers.", nil))
		require.NoError(t, err)
		err = s.SaveSpecies(ctx, Species("c5", "Morchella esculenta (L.) Pers.", nil))
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("search", func(t *testing.T) {
		tests := []struct {
			msg   string
			query string
			ids   []string
		}{
			{"accent-free vernacular", "champinon", []string{"c1"}},
			{"accented vernacular", "Champiñ", []string{"c1"}},
			{"scientific prefix", "amanita", []string{"c2"}},
			{"case-insensitive", "BOLETUS", []string{"c3"}},
			{"regex characters are literal", "(L.) Lam", []string{"c2"}},
			{"no match", "russula", nil},
			{"empty", "  ", nil},
		}
		for _, v := range tests {
			found, err := s.SearchSpecies(ctx, v.query, 100)
			require.NoError(t, err, v.msg)
			require.NotNil(t, found, v.msg)
			var ids []string
			for _, sp := range found {
				ids = append(ids, sp.ID)
			}
			assert.ElementsMatch(t, v.ids, ids, v.msg)
		}

		found, err := s.SearchSpecies(ctx, "a", 2)
		require.NoError(t, err)
		assert.Len(t, found, 2, "limit")
	})

	var userID string
	t.Run("users", func(t *testing.T) {
		u := store.User{Name: "Ana", Email: " Ana@Example.org", PasswordHash: "hash"}
		require.NoError(t, s.CreateUser(ctx, &u))
		assert.NotEmpty(t, u.ID)
		userID = u.ID

		dup := store.User{Name: "Other", Email: "ana@example.org", PasswordHash: "x"}
		assert.ErrorIs(t, s.CreateUser(ctx, &dup), store.ErrDuplicate)

		got, err := s.UserByEmail(ctx, "ANA@example.org")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "hash", got.PasswordHash)

		_, err = s.UserByEmail(ctx, "nobody@example.org")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("notes", func(t *testing.T) {
		require.NotEmpty(t, userID)
		n := store.Note{
			UserID:   userID,
			Title:    "Níscalos",
			Place:    "Sierra de Guadarrama",
			Latitude: store.NewCoordinate(40.78),
		}
		require.NoError(t, s.CreateNote(ctx, &n))
		assert.NotEmpty(t, n.ID)
		assert.False(t, n.CreatedAt.IsZero())

		notes, err := s.Notes(ctx, userID)
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "Níscalos", notes[0].Title)

		all, err := s.Notes(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 1)

		title := "Níscalos y rebozuelos"
		upd, err := s.UpdateNote(ctx, n.ID, store.NoteUpdate{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, title, upd.Title)
		assert.Equal(t, "Sierra de Guadarrama", upd.Place)
		require.NotNil(t, upd.Latitude)
		assert.InDelta(t, 40.78, upd.Latitude.Float(), 1e-9)

		_, err = s.UpdateNote(ctx, missingID, store.NoteUpdate{Title: &title})
		assert.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.UpdateNote(ctx, "not-an-id", store.NoteUpdate{Title: &title})
		assert.ErrorIs(t, err, store.ErrInvalidID)
		_, err = s.Notes(ctx, "not-an-id")
		assert.ErrorIs(t, err, store.ErrInvalidID)

		require.NoError(t, s.DeleteNote(ctx, n.ID))
		assert.ErrorIs(t, s.DeleteNote(ctx, n.ID), store.ErrNotFound)
		assert.ErrorIs(t, s.DeleteNote(ctx, "not-an-id"), store.ErrInvalidID)
	})
}
