package parserpool_test

import (
	"sync"
	"testing"

	"github.com/gnames/fungidb/pkg/parserpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewPool verifies pool creation with default and custom sizes.
func TestNewPool(t *testing.T) {
	for _, jobs := range []int{0, 1, 4} {
		pool := parserpool.NewPool(jobs)
		require.NotNil(t, pool)

		res := pool.Parse("Amanita muscaria")
		assert.True(t, res.Parsed, "jobs %d", jobs)
		pool.Close()
	}
}

// TestCanonical verifies canonical forms of fungal names.
func TestCanonical(t *testing.T) {
	pool := parserpool.NewPool(2)
	defer pool.Close()

	tests := []struct {
		msg   string
		name  string
		canon string
		ok    bool
	}{
		{"binomial", "Amanita muscaria", "Amanita muscaria", true},
		{"with authors", "Agaricus bisporus (J.E. Lange) Imbach",
			"Agaricus bisporus", true},
		{"with year", "Boletus edulis Bull. 1782", "Boletus edulis", true},
		{"empty", "   ", "", false},
		{"not a name", "!!!", "", false},
	}

	for _, v := range tests {
		canon, ok := pool.Canonical(v.name)
		assert.Equal(t, v.ok, ok, v.msg)
		assert.Equal(t, v.canon, canon, v.msg)
	}
}

// TestParse_Concurrent verifies the pool is safe for concurrent use.
func TestParse_Concurrent(t *testing.T) {
	pool := parserpool.NewPool(3)
	defer pool.Close()

	names := []string{
		"Cantharellus cibarius Fr.",
		"Morchella esculenta (L.) Pers.",
		"Pleurotus ostreatus (Jacq.) P. Kumm.",
	}

	var wg sync.WaitGroup
	for i := range 30 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, ok := pool.Canonical(names[i%len(names)])
			assert.True(t, ok)
		}(i)
	}
	wg.Wait()
}

// TestClose_Twice verifies Close is idempotent.
func TestClose_Twice(t *testing.T) {
	pool := parserpool.NewPool(1)
	pool.Close()
	assert.NotPanics(t, pool.Close)
}
