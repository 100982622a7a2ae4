// Package iogbif fetches accepted fungal species from the GBIF species
// API and upserts them into a species store.
//
// Pages of the search endpoint pass through the same taxon filter as the
// TSV import and are converted to the same species documents, so both
// sources share one collection.
package iogbif

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/fungidb/internal/ioimport"
	"github.com/gnames/fungidb/internal/iometrics"
	"github.com/gnames/fungidb/pkg/config"
	"github.com/gnames/fungidb/pkg/lifecycle"
	"github.com/gnames/fungidb/pkg/store"
	"github.com/gnames/fungidb/pkg/taxon"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

// maxOffset is the deepest offset the GBIF search API serves.
const maxOffset = 100_000

// Fetcher implements lifecycle.Fetcher.
type Fetcher struct {
	cfg    *config.Config
	store  store.SpeciesStore
	client *http.Client
	filter taxon.Filter
	quiet  bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// OptHTTPClient replaces the default HTTP client.
func OptHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// OptQuiet hides the progress bar and terminal summary.
func OptQuiet(b bool) Option {
	return func(f *Fetcher) {
		f.quiet = b
	}
}

// New creates a Fetcher writing into the given store.
func New(cfg *config.Config, s store.SpeciesStore, opts ...Option) *Fetcher {
	res := &Fetcher{
		cfg:    cfg,
		store:  s,
		client: &http.Client{Timeout: cfg.GBIF.Timeout},
		filter: taxon.NewFilter(cfg.Import.IsStrict()),
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Fetch walks all pages of accepted fungal species and upserts every page.
// A page that cannot be fetched after all retries aborts the run.
func (f *Fetcher) Fetch(ctx context.Context) (lifecycle.Summary, error) {
	var res lifecycle.Summary
	start := time.Now()

	slog.Info("Starting GBIF fetch",
		"url", f.cfg.GBIF.URL,
		"page_size", f.cfg.GBIF.PageSize,
		"vernacular_lookup", f.cfg.GBIF.VernacularLookup,
		"english_fallback", f.cfg.GBIF.EnglishFallback,
	)

	var bar *pb.ProgressBar
	defer func() {
		if bar != nil {
			bar.Finish()
		}
	}()

	for offset := 0; ; {
		var page searchPage
		if err := f.getJSON(ctx, f.searchURL(offset), &page); err != nil {
			return res, f.cancelled(err)
		}
		res.Pages++
		if bar == nil {
			bar = f.progressBar(min(page.Count, maxOffset))
		}

		docs, err := f.species(ctx, page.Results)
		if err != nil {
			return res, f.cancelled(err)
		}
		for i := range docs {
			if docs[i].VernacularName != nil {
				res.Vernaculars++
			}
		}
		res.ValidTaxa += len(docs)

		if len(docs) > 0 {
			wr, err := f.writePage(ctx, docs)
			if err != nil {
				return res, StorageError(offset, err)
			}
			res.Inserted += wr.Inserted
			res.Updated += wr.Updated
			res.Queued += len(docs)
			res.Batches++
		}
		bar.Add(len(page.Results))

		offset += len(page.Results)
		if page.EndOfRecords || len(page.Results) == 0 {
			break
		}
		if offset >= maxOffset {
			slog.Warn("GBIF search offset limit reached", "offset", offset)
			break
		}

		select {
		case <-time.After(f.cfg.GBIF.PageDelay):
		case <-ctx.Done():
			return res, ioimport.CancelledError(ctx.Err())
		}
	}

	res.Elapsed = time.Since(start)
	f.report(res)
	return res, nil
}

// species converts accepted items of a page to documents.
func (f *Fetcher) species(ctx context.Context, items []item) ([]taxon.Species, error) {
	res := make([]taxon.Species, 0, len(items))
	for _, it := range items {
		if it.Key == 0 || it.ScientificName == "" {
			continue
		}
		tr := toRecord(it)
		if !f.filter.Accept(tr) {
			continue
		}
		name, err := f.vernacular(ctx, it)
		if err != nil {
			return nil, err
		}
		res = append(res, taxon.NewSpecies(tr, it.CanonicalName, name, taxon.SourceGBIF))
	}
	return res, nil
}

// vernacular picks a Spanish name from the item, then from the
// vernacularNames endpoint, then an English one when allowed.
func (f *Fetcher) vernacular(ctx context.Context, it item) (*string, error) {
	if name := pick(it.VernacularNames, taxon.IsSpanish); name != nil {
		return name, nil
	}

	var more []vernacular
	if f.cfg.GBIF.VernacularLookup {
		var vp vernacularPage
		if err := f.getJSON(ctx, f.vernacularURL(it.Key), &vp); err != nil {
			return nil, err
		}
		if name := pick(vp.Results, taxon.IsSpanish); name != nil {
			return name, nil
		}
		more = vp.Results
	}

	if !f.cfg.GBIF.EnglishFallback {
		return nil, nil
	}
	if name := pick(it.VernacularNames, taxon.IsEnglish); name != nil {
		return name, nil
	}
	return pick(more, taxon.IsEnglish), nil
}

func (f *Fetcher) writePage(ctx context.Context, docs []taxon.Species) (store.WriteResult, error) {
	start := time.Now()
	wr, err := f.store.UpsertSpecies(ctx, docs)
	if err != nil {
		iometrics.RecordBatch(iometrics.BatchError, 0, 0, 0, time.Since(start))
		return wr, err
	}
	iometrics.RecordQueued(len(docs))
	iometrics.RecordBatch(iometrics.BatchOK,
		wr.Inserted, wr.Updated, wr.Duplicates, time.Since(start))
	return wr, nil
}

func (f *Fetcher) cancelled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ioimport.CancelledError(err)
	}
	return err
}

func (f *Fetcher) progressBar(total int) *pb.ProgressBar {
	bar := pb.Full.New(total)
	bar.Set("prefix", "Fetching GBIF species: ")
	bar.Set(pb.CleanOnFinish, true)
	if f.quiet {
		bar.SetWriter(io.Discard)
	}
	return bar.Start()
}

func (f *Fetcher) report(s lifecycle.Summary) {
	slog.Info("GBIF fetch complete",
		"pages", s.Pages,
		"species", s.ValidTaxa,
		"vernaculars", s.Vernaculars,
		"inserted", s.Inserted,
		"updated", s.Updated,
		"duration", gnfmt.TimeString(s.Elapsed.Seconds()),
	)
	if f.quiet {
		return
	}
	gn.Info(`GBIF fetch complete
Pages: %s, species: <em>%s</em>, with common names: <em>%s</em>
Inserted: %s, updated: %s. Elapsed time: <em>%s</em>
`,
		humanize.Comma(int64(s.Pages)),
		humanize.Comma(int64(s.ValidTaxa)),
		humanize.Comma(int64(s.Vernaculars)),
		humanize.Comma(int64(s.Inserted)),
		humanize.Comma(int64(s.Updated)),
		gnfmt.TimeString(s.Elapsed.Seconds()),
	)
}

// toRecord maps a GBIF item to the record of the taxon filter. Generic
// name and epithet come from the canonical name.
func toRecord(it item) taxon.TaxonRecord {
	kingdom := it.Kingdom
	if kingdom == "" && it.KingdomKey == fungiKingdomKey {
		kingdom = "Fungi"
	}

	generic, epithet := it.Genus, ""
	words := strings.Fields(it.CanonicalName)
	if len(words) > 0 {
		generic = words[0]
	}
	if len(words) > 1 {
		epithet = words[1]
	}

	return taxon.TaxonRecord{
		TaxonID:         strconv.FormatInt(it.Key, 10),
		Kingdom:         kingdom,
		Phylum:          it.Phylum,
		Class:           it.Class,
		Order:           it.Order,
		Family:          it.Family,
		Genus:           it.Genus,
		TaxonRank:       it.Rank,
		GenericName:     generic,
		SpecificEpithet: epithet,
		ScientificName:  it.ScientificName,
	}
}

// pick returns the first non-empty name with a matching language.
func pick(vs []vernacular, lang func(string) bool) *string {
	for _, v := range vs {
		if !lang(v.Language) {
			continue
		}
		if name := taxon.CleanName(v.VernacularName); name != "" {
			return &name
		}
	}
	return nil
}
