// Package parserpool provides a pool of gnparser instances for concurrent
// parsing of fungal scientific names.
// This is a pure package - parsing is computation, not I/O.
package parserpool

import (
	"runtime"
	"strings"
	"sync"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// Pool provides a pool of gnparser instances for concurrent parsing.
// Fungi follow the botanical nomenclatural code, so all parsers are
// configured for it.
type Pool interface {
	// Parse parses a scientific name string. It retrieves a parser from the
	// pool, parses the name, and returns the parser to the pool. This method
	// is safe for concurrent use.
	Parse(nameString string) parsed.Parsed

	// Canonical returns the simple canonical form of a name, for example
	// "Agaricus bisporus" for "Agaricus bisporus (J.E. Lange) Imbach".
	// The second value is false when the name could not be parsed.
	Canonical(nameString string) (string, bool)

	// Close shuts down the parser pool and releases resources.
	// After calling Close, the pool should not be used.
	Close()
}

type pool struct {
	ch   chan gnparser.GNparser
	once sync.Once
}

// NewPool creates a new parser pool with the specified number of workers.
// If jobsNum is 0, it defaults to runtime.NumCPU().
func NewPool(jobsNum int) Pool {
	poolSize := jobsNum
	if poolSize <= 0 {
		poolSize = runtime.NumCPU()
	}

	cfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Botanical),
		gnparser.OptWithDetails(true),
	)

	return &pool{ch: gnparser.NewPool(cfg, poolSize)}
}

// Parse parses a name with one of the pooled parsers.
func (p *pool) Parse(nameString string) parsed.Parsed {
	// blocks if all parsers are busy
	parser := <-p.ch
	defer func() { p.ch <- parser }()

	return parser.ParseName(nameString)
}

// Canonical returns the simple canonical form of a name.
func (p *pool) Canonical(nameString string) (string, bool) {
	nameString = strings.TrimSpace(nameString)
	if nameString == "" {
		return "", false
	}
	res := p.Parse(nameString)
	if !res.Parsed || res.Canonical == nil || res.Canonical.Simple == "" {
		return "", false
	}
	return res.Canonical.Simple, true
}

// Close closes the channel and drains any remaining parsers.
func (p *pool) Close() {
	p.once.Do(func() {
		close(p.ch)
		for range p.ch {
		}
	})
}
