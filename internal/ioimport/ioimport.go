// Package ioimport loads fungal species from taxonomic backbone TSV files
// into a species store.
//
// The import runs three sequential passes over the files:
//
//  1. taxon file: the shared taxon filter collects accepted taxonIDs;
//  2. vernacular file: Spanish names of accepted taxa are resolved;
//  3. taxon file again: accepted records become species documents that are
//     written in fixed-size batches.
//
// Batches of the third pass are written concurrently. A FIFO semaphore caps
// the number of writes in flight and an errgroup joins them before the
// import returns.
package ioimport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/fungidb/internal/iometrics"
	"github.com/gnames/fungidb/internal/iotsv"
	"github.com/gnames/fungidb/pkg/config"
	"github.com/gnames/fungidb/pkg/lifecycle"
	"github.com/gnames/fungidb/pkg/parserpool"
	"github.com/gnames/fungidb/pkg/store"
	"github.com/gnames/fungidb/pkg/taxon"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Importer implements lifecycle.Importer.
type Importer struct {
	cfg    *config.Config
	store  store.SpeciesStore
	parser parserpool.Pool
	filter taxon.Filter

	// gate limits concurrent bulk writes, waiters resume in FIFO order.
	gate *semaphore.Weighted

	quiet bool
}

// Option configures an Importer.
type Option func(*Importer)

// OptParser sets a parser pool used to compute canonical names. Without
// it canonical names are binomials of the records.
func OptParser(p parserpool.Pool) Option {
	return func(imp *Importer) {
		imp.parser = p
	}
}

// OptQuiet hides the progress bar and terminal summary.
func OptQuiet(b bool) Option {
	return func(imp *Importer) {
		imp.quiet = b
	}
}

// New creates an Importer writing into the given store.
func New(cfg *config.Config, s store.SpeciesStore, opts ...Option) *Importer {
	res := &Importer{
		cfg:    cfg,
		store:  s,
		filter: taxon.NewFilter(cfg.Import.IsStrict()),
		gate:   semaphore.NewWeighted(int64(max(cfg.Import.MaxInFlight, 1))),
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Import runs the three passes and returns statistics of the run.
// Duplicate ids are skipped, any other storage error aborts the import.
func (imp *Importer) Import(ctx context.Context) (lifecycle.Summary, error) {
	var res lifecycle.Summary
	start := time.Now()

	slog.Info("Starting TSV import",
		"taxon_file", imp.cfg.Import.TaxonFile,
		"vernacular_file", imp.cfg.Import.VernacularFile,
		"strict_ranks", imp.filter.IsStrict(),
		"write_mode", imp.cfg.Import.WriteMode,
	)

	valid, err := imp.validTaxa(ctx)
	if err != nil {
		return res, err
	}
	res.ValidTaxa = len(valid)
	slog.Info("Collected valid taxa", "count", humanize.Comma(int64(len(valid))))

	if len(valid) == 0 {
		gn.Warn("No fungal species found in <em>%s</em>", imp.cfg.Import.TaxonFile)
		res.Elapsed = time.Since(start)
		return res, nil
	}

	names, err := imp.vernaculars(ctx, valid)
	if err != nil {
		return res, err
	}
	res.Vernaculars = len(names)
	slog.Info("Resolved vernacular names", "count", humanize.Comma(int64(len(names))))

	st, err := imp.load(ctx, valid, names)
	if err != nil {
		return res, err
	}
	res.Queued = st.queued
	res.Batches = st.batches
	res.Inserted = st.Inserted
	res.Updated = st.Updated
	res.Duplicates = st.Duplicates
	res.Elapsed = time.Since(start)

	imp.report(res)
	return res, nil
}

// accept is the single predicate of the first and the third pass.
func (imp *Importer) accept(tr taxon.TaxonRecord) bool {
	return tr.TaxonID != "" && imp.filter.Accept(tr)
}

// validTaxa is the first pass.
func (imp *Importer) validTaxa(ctx context.Context) (taxon.ValidSet, error) {
	res := make(taxon.ValidSet)
	r := iotsv.New(imp.cfg.Import.TaxonFile)
	if err := checkColumns(r, taxonColumns); err != nil {
		return nil, err
	}
	for rec, err := range r.Records() {
		if err != nil {
			return nil, err
		}
		if err = ctx.Err(); err != nil {
			return nil, CancelledError(err)
		}
		tr := taxon.NewTaxonRecord(rec)
		if imp.accept(tr) {
			res.Add(tr.TaxonID)
		}
	}
	return res, nil
}

var (
	taxonColumns      = []string{"taxonID", "scientificName", "kingdom"}
	vernacularColumns = []string{"taxonID", "vernacularName", "language"}
)

// checkColumns warns about absent columns. Their fields are read as empty
// strings, so such records are rejected by the filter or the resolver.
func checkColumns(r *iotsv.Reader, cols []string) error {
	missing, err := r.MissingColumns(cols...)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		return nil
	}
	slog.Warn("Columns are missing", "file", r.Path(), "columns", missing)
	gn.Warn("File <em>%s</em> has no columns: %s",
		r.Path(), strings.Join(missing, ", "))
	return nil
}

// vernaculars is the second pass.
func (imp *Importer) vernaculars(
	ctx context.Context,
	valid taxon.ValidSet,
) (taxon.VernacularMap, error) {
	rs := taxon.NewResolver(valid)
	r := iotsv.New(imp.cfg.Import.VernacularFile)
	if err := checkColumns(r, vernacularColumns); err != nil {
		return nil, err
	}
	for rec, err := range r.Records() {
		if err != nil {
			return nil, err
		}
		if err = ctx.Err(); err != nil {
			return nil, CancelledError(err)
		}
		rs.Add(taxon.NewVernacularRecord(rec))
	}
	return rs.Map(), nil
}

type loadStats struct {
	store.WriteResult
	queued  int
	batches int
}

// load is the third pass.
func (imp *Importer) load(
	ctx context.Context,
	valid taxon.ValidSet,
	names taxon.VernacularMap,
) (loadStats, error) {
	var res loadStats
	var mu sync.Mutex

	size := max(imp.cfg.Import.BatchSize, 1)
	eg, egCtx := errgroup.WithContext(ctx)

	write := func(docs []taxon.Species) error {
		wr, err := imp.writeBatch(egCtx, docs)
		if err != nil {
			return err
		}
		mu.Lock()
		res.WriteResult = res.WriteResult.Add(wr)
		res.batches++
		mu.Unlock()
		return nil
	}

	bar := imp.progressBar(len(valid))
	defer bar.Finish()

	var loopErr error
	batch := make([]taxon.Species, 0, size)
	r := iotsv.New(imp.cfg.Import.TaxonFile)
	for rec, err := range r.Records() {
		if err != nil {
			loopErr = err
			break
		}
		tr := taxon.NewTaxonRecord(rec)
		if !imp.accept(tr) {
			continue
		}
		doc := taxon.NewSpecies(tr, "", names.Name(tr.TaxonID), taxon.SourceTSV)
		batch = append(batch, doc)
		res.queued++
		bar.Increment()

		if len(batch) < size {
			continue
		}

		// blocks only when the ceiling is reached
		if loopErr = imp.gate.Acquire(egCtx, 1); loopErr != nil {
			break
		}
		docs := batch
		eg.Go(func() error {
			defer imp.gate.Release(1)
			return write(docs)
		})
		batch = make([]taxon.Species, 0, size)
	}

	// the last partial batch is written synchronously
	if loopErr == nil && len(batch) > 0 {
		if loopErr = imp.gate.Acquire(egCtx, 1); loopErr == nil {
			loopErr = write(batch)
			imp.gate.Release(1)
		}
	}

	// join all dispatched batches, the first storage error wins
	if err := eg.Wait(); err != nil {
		return res, err
	}
	if loopErr != nil {
		if errors.Is(loopErr, context.Canceled) ||
			errors.Is(loopErr, context.DeadlineExceeded) {
			return res, CancelledError(loopErr)
		}
		return res, loopErr
	}
	iometrics.RecordQueued(res.queued)
	return res, nil
}

// writeBatch computes canonical names and writes one batch.
func (imp *Importer) writeBatch(
	ctx context.Context,
	docs []taxon.Species,
) (store.WriteResult, error) {
	imp.canonize(docs)

	iometrics.ImportBatchesInFlight.Inc()
	defer iometrics.ImportBatchesInFlight.Dec()

	start := time.Now()
	var wr store.WriteResult
	var err error
	if imp.cfg.Import.WriteMode == "upsert" {
		wr, err = imp.store.UpsertSpecies(ctx, docs)
	} else {
		wr, err = imp.store.InsertSpecies(ctx, docs)
	}
	if err != nil {
		iometrics.RecordBatch(iometrics.BatchError, 0, 0, 0, time.Since(start))
		slog.Error("Bulk write failed", "size", len(docs), "error", err)
		return wr, StorageError(len(docs), err)
	}

	iometrics.RecordBatch(iometrics.BatchOK,
		wr.Inserted, wr.Updated, wr.Duplicates, time.Since(start))
	slog.Debug("Bulk write done",
		"size", len(docs),
		"inserted", wr.Inserted,
		"updated", wr.Updated,
		"duplicates", wr.Duplicates,
	)
	return wr, nil
}

func (imp *Importer) canonize(docs []taxon.Species) {
	if imp.parser == nil {
		return
	}
	for i := range docs {
		if c, ok := imp.parser.Canonical(docs[i].ScientificName); ok {
			docs[i].CanonicalName = c
		}
	}
}

func (imp *Importer) progressBar(total int) *pb.ProgressBar {
	bar := pb.Full.New(total)
	bar.Set("prefix", "Importing species: ")
	bar.Set(pb.CleanOnFinish, true)
	if imp.quiet {
		bar.SetWriter(io.Discard)
	}
	return bar.Start()
}

func (imp *Importer) report(s lifecycle.Summary) {
	slog.Info("Import complete",
		"valid_taxa", s.ValidTaxa,
		"vernaculars", s.Vernaculars,
		"queued", s.Queued,
		"inserted", s.Inserted,
		"updated", s.Updated,
		"duplicates", s.Duplicates,
		"batches", s.Batches,
		"duration", gnfmt.TimeString(s.Elapsed.Seconds()),
	)
	if imp.quiet {
		return
	}
	gn.Info(`Import complete
Valid taxa: <em>%s</em>, with Spanish names: <em>%s</em>
Queued: %s, inserted: %s, updated: %s, duplicates: %s
Batches: %s. Elapsed time: <em>%s</em>
`,
		humanize.Comma(int64(s.ValidTaxa)),
		humanize.Comma(int64(s.Vernaculars)),
		humanize.Comma(int64(s.Queued)),
		humanize.Comma(int64(s.Inserted)),
		humanize.Comma(int64(s.Updated)),
		humanize.Comma(int64(s.Duplicates)),
		humanize.Comma(int64(s.Batches)),
		gnfmt.TimeString(s.Elapsed.Seconds()),
	)
}
