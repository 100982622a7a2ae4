// Package store declares storage interfaces of FungiDB and the models of
// users and field notes. Implementations live in internal/iomongo,
// internal/iopg and internal/iomem.
package store

import (
	"context"
	"errors"

	"github.com/gnames/fungidb/pkg/taxon"
)

var (
	// ErrDuplicate means a record with the same key already exists.
	ErrDuplicate = errors.New("duplicate key")

	// ErrNotFound means a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID means an identifier is malformed for the backend.
	ErrInvalidID = errors.New("invalid id")
)

// WriteResult describes the outcome of a bulk write.
type WriteResult struct {
	// Inserted is the number of new documents.
	Inserted int

	// Updated is the number of replaced documents (upsert only).
	Updated int

	// Duplicates is the number of documents skipped because their id
	// already existed (insert only).
	Duplicates int
}

// Add sums two results.
func (wr WriteResult) Add(other WriteResult) WriteResult {
	return WriteResult{
		Inserted:   wr.Inserted + other.Inserted,
		Updated:    wr.Updated + other.Updated,
		Duplicates: wr.Duplicates + other.Duplicates,
	}
}

// SpeciesStore keeps species documents.
type SpeciesStore interface {
	// InsertSpecies writes documents in one unordered bulk operation.
	// Documents with existing ids are skipped and counted as duplicates;
	// any other failure is returned as an error.
	InsertSpecies(ctx context.Context, docs []taxon.Species) (WriteResult, error)

	// UpsertSpecies replaces documents by id, creating missing ones.
	UpsertSpecies(ctx context.Context, docs []taxon.Species) (WriteResult, error)

	// SaveSpecies inserts one document. It returns ErrDuplicate if the id
	// exists.
	SaveSpecies(ctx context.Context, doc taxon.Species) error

	// SearchSpecies finds up to limit documents whose scientific or
	// vernacular name, or their normalized keys, contain the query
	// case-insensitively.
	SearchSpecies(ctx context.Context, query string, limit int) ([]taxon.Species, error)

	// CountSpecies returns the number of stored species.
	CountSpecies(ctx context.Context) (int64, error)
}

// UserStore keeps registered users.
type UserStore interface {
	// CreateUser stores a user and sets its ID. It returns ErrDuplicate if
	// the email is taken.
	CreateUser(ctx context.Context, u *User) error

	// UserByEmail returns a user or ErrNotFound.
	UserByEmail(ctx context.Context, email string) (User, error)
}

// NoteStore keeps field notes.
type NoteStore interface {
	// CreateNote stores a note, setting its ID and timestamps.
	CreateNote(ctx context.Context, n *Note) error

	// Notes returns notes of a user, newest first. Empty userID returns all
	// notes.
	Notes(ctx context.Context, userID string) ([]Note, error)

	// UpdateNote applies a partial update and returns the updated note.
	UpdateNote(ctx context.Context, id string, upd NoteUpdate) (Note, error)

	// DeleteNote removes a note.
	DeleteNote(ctx context.Context, id string) error
}

// Store combines all collections of one backend.
type Store interface {
	SpeciesStore
	UserStore
	NoteStore

	// Init creates collections, tables and indexes. It is idempotent.
	Init(ctx context.Context) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases connections.
	Close(ctx context.Context) error
}
