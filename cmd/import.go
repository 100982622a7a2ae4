/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"github.com/gnames/fungidb/internal/ioimport"
	"github.com/gnames/fungidb/pkg/config"
	"github.com/gnames/fungidb/pkg/parserpool"
	"github.com/spf13/cobra"
)

// getImportCmd returns the import command.
func getImportCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import fungal species from TSV backbone files",
		Long: `Import fungal species from a taxonomic backbone exported as TSV files.

The import makes three passes:
  1. Taxon file: accepted fungal species are selected
  2. Vernacular file: the first Spanish name of every species is kept
  3. Taxon file: species documents are written in batches

Species with existing ids are skipped (write mode 'insert') or replaced
(write mode 'upsert'). Both modes are safe to run again.

Examples:
  fungidb import
  fungidb import -t backbone/Taxon.tsv -v backbone/VernacularName.tsv
  fungidb import --mode upsert --batch-size 5000`,
		RunE: withErrorMessage(runImport),
	}

	importCmd.Flags().StringP("taxon", "t", "", "path to the taxon TSV file")
	importCmd.Flags().StringP("vernacular", "v", "",
		"path to the vernacular names TSV file")
	importCmd.Flags().IntP("batch-size", "b", 0, "number of species per bulk write")
	importCmd.Flags().IntP("max-in-flight", "m", 0,
		"number of concurrent bulk writes")
	importCmd.Flags().StringP("mode", "w", "", "write mode: insert or upsert")
	importCmd.Flags().Bool("strict", true,
		"keep only phyla, classes and orders of macrofungi")

	return importCmd
}

func runImport(cmd *cobra.Command, _ []string) error {
	applyFlags(cmd,
		stringFlag("taxon", config.OptImportTaxonFile),
		stringFlag("vernacular", config.OptImportVernacularFile),
		intFlag("batch-size", config.OptImportBatchSize),
		intFlag("max-in-flight", config.OptImportMaxInFlight),
		stringFlag("mode", config.OptImportWriteMode),
		boolFlag("strict", func(b bool) config.Option {
			return config.OptImportStrictRanks(&b)
		}),
	)

	ctx, stop := signalContext()
	defer stop()

	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(s)

	if err = s.Init(ctx); err != nil {
		return err
	}

	pool := parserpool.NewPool(cfg.JobsNumber)
	defer pool.Close()

	imp := ioimport.New(cfg, s, ioimport.OptParser(pool))
	_, err = imp.Import(ctx)
	return err
}
