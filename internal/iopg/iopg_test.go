package iopg

import (
	"context"
	"strings"
	"testing"

	"github.com/gnames/fungidb/internal/iotesting"
	"github.com/gnames/fungidb/pkg/taxon"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValuesStatement verifies placeholders of multi-row inserts.
func TestValuesStatement(t *testing.T) {
	docs := []taxon.Species{
		iotesting.Species("1", "Amanita muscaria", nil),
		iotesting.Species("2", "Boletus edulis", nil),
	}
	q, args := valuesStatement(docs)
	assert.True(t, strings.HasPrefix(q, "INSERT INTO species (id, scientific_name,"))
	assert.Contains(t, q, "($1, $2,")
	assert.Contains(t, q, "($15, $16,")
	assert.True(t, strings.HasSuffix(q, "$28)"))
	assert.Len(t, args, 28)
	assert.Equal(t, "2", args[14])
}

// TestDedupLast verifies the last document of an id wins.
func TestDedupLast(t *testing.T) {
	name := "Boleto"
	docs := []taxon.Species{
		iotesting.Species("1", "Boletus edulis", nil),
		iotesting.Species("2", "Amanita muscaria", nil),
		iotesting.Species("1", "Boletus edulis", &name),
	}
	res := dedupLast(docs)
	require.Len(t, res, 2)
	assert.Equal(t, "1", res[0].ID)
	require.NotNil(t, res[0].VernacularName)
	assert.Equal(t, "Boleto", *res[0].VernacularName)
}

// TestEscapeLike verifies LIKE wildcards are literal.
func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% a\_b c\\d`, escapeLike(`100% a_b c\d`))
}

// TestStoreContract runs the shared store contract against PostgreSQL.
func TestStoreContract(t *testing.T) {
	cfg := iotesting.GetTestConfig(t, "postgres")
	ctx := context.Background()

	s, err := New(ctx, cfg.Database)
	require.NoError(t, err)
	ps := s.(*pgStore)
	for _, v := range []string{"species", "users", "notes"} {
		_, err = ps.pool.Exec(ctx, "DROP TABLE IF EXISTS "+v)
		require.NoError(t, err)
	}
	defer func() { _ = s.Close(ctx) }()

	iotesting.StoreContract(t, s, uuid.NewString())
}
