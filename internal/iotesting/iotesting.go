// Package iotesting provides shared test utilities: configuration for
// integration tests, TSV fixtures and a contract suite for store.Store
// implementations.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/fungidb/pkg/config"
	"github.com/stretchr/testify/require"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "fungidb_test"

	// MongoURIEnv points integration tests to a MongoDB server.
	MongoURIEnv = "FUNGIDB_TEST_MONGO_URI"

	// PostgresHostEnv points integration tests to a PostgreSQL server.
	// Credentials come from FUNGIDB_TEST_PG_USER and FUNGIDB_TEST_PG_PASSWORD.
	PostgresHostEnv = "FUNGIDB_TEST_PG_HOST"
)

// GetTestConfig returns a configuration suitable for integration tests.
// It skips the test in short mode or when the connection of the backend is
// not configured in the environment.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    cfg := iotesting.GetTestConfig(t, "mongo")
//	    // ... use cfg for database operations
//	}
func GetTestConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := config.New()
	opts := []config.Option{
		config.OptDatabaseBackend(backend),
		config.OptDatabaseName(TestDatabaseName),
	}

	switch backend {
	case "mongo":
		uri := os.Getenv(MongoURIEnv)
		if uri == "" {
			t.Skipf("skipping integration test, %s is not set", MongoURIEnv)
		}
		opts = append(opts, config.OptDatabaseURI(uri))
	case "postgres":
		host := os.Getenv(PostgresHostEnv)
		if host == "" {
			t.Skipf("skipping integration test, %s is not set", PostgresHostEnv)
		}
		opts = append(opts, config.OptDatabaseHost(host))
		if user := os.Getenv("FUNGIDB_TEST_PG_USER"); user != "" {
			opts = append(opts, config.OptDatabaseUser(user))
		}
		if pass := os.Getenv("FUNGIDB_TEST_PG_PASSWORD"); pass != "" {
			opts = append(opts, config.OptDatabasePassword(pass))
		}
	}

	cfg.Update(opts)
	return cfg
}

// TaxonHeader is the header of taxon fixtures, in the column order of the
// GBIF backbone.
var TaxonHeader = []string{
	"taxonID", "scientificName", "taxonRank", "kingdom", "phylum", "class",
	"order", "family", "genus", "genericName", "specificEpithet",
}

// TaxonRow builds a fixture row of an accepted mushroom species.
func TaxonRow(id, generic, epithet string) []string {
	return []string{
		id, generic + " " + epithet + " Fr.", "species", "Fungi",
		"Basidiomycota", "Agaricomycetes", "Agaricales", "Agaricaceae",
		generic, generic, epithet,
	}
}

// VernacularHeader is the header of vernacular fixtures.
var VernacularHeader = []string{"taxonID", "vernacularName", "language"}

// WriteTSV writes a TSV file into dir and returns its path.
func WriteTSV(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Join(header, "\t"))
	b.WriteString("\n")
	for _, v := range rows {
		b.WriteString(strings.Join(v, "\t"))
		b.WriteString("\n")
	}
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(b.String()), 0644)
	require.NoError(t, err)
	return path
}
