package lifecycle_test

import (
	"testing"

	"github.com/gnames/fungidb/internal/iogbif"
	"github.com/gnames/fungidb/internal/ioimport"
	"github.com/gnames/fungidb/pkg/lifecycle"
	"github.com/gnames/fungidb/pkg/store"
	"github.com/stretchr/testify/assert"
)

// TestImporterContract ensures that ioimport.Importer satisfies the
// lifecycle.Importer interface.
func TestImporterContract(t *testing.T) {
	// compile-time check
	var _ lifecycle.Importer = &ioimport.Importer{}
	assert.True(t, true, "ioimport.Importer should implement lifecycle.Importer")
}

// TestFetcherContract ensures that iogbif.Fetcher satisfies the
// lifecycle.Fetcher interface.
func TestFetcherContract(t *testing.T) {
	var _ lifecycle.Fetcher = &iogbif.Fetcher{}
	assert.True(t, true, "iogbif.Fetcher should implement lifecycle.Fetcher")
}

// TestSchemaManagerContract ensures that every store can prepare its
// schema.
func TestSchemaManagerContract(t *testing.T) {
	var s store.Store
	var _ lifecycle.SchemaManager = s
	assert.Nil(t, s)
}
