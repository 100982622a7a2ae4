// Package lifecycle defines the stages that bring species data into the
// store: schema creation, TSV import and GBIF fetch.
package lifecycle

import (
	"context"
	"time"
)

// SchemaManager prepares the storage: collections, tables and indexes.
// It is idempotent and safe to run many times.
type SchemaManager interface {
	Init(ctx context.Context) error
}

// Importer loads species from taxonomic backbone TSV files.
type Importer interface {
	// Import runs the filter, resolve and load passes and returns the
	// statistics of the run.
	Import(ctx context.Context) (Summary, error)
}

// Fetcher loads species from a remote species API.
type Fetcher interface {
	Fetch(ctx context.Context) (Summary, error)
}

// Summary describes a finished import or fetch.
type Summary struct {
	// ValidTaxa is the number of accepted taxa.
	ValidTaxa int
	// Vernaculars is the number of taxa that received a common name.
	Vernaculars int
	// Queued is the number of species documents handed to the store.
	Queued int
	// Inserted is the number of new documents.
	Inserted int
	// Updated is the number of replaced documents.
	Updated int
	// Duplicates is the number of documents skipped as existing.
	Duplicates int
	// Batches is the number of bulk writes.
	Batches int
	// Pages is the number of fetched API pages.
	Pages   int
	Elapsed time.Duration
}
