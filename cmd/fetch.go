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
	"github.com/gnames/fungidb/internal/iogbif"
	"github.com/gnames/fungidb/pkg/config"
	"github.com/spf13/cobra"
)

// getFetchCmd returns the fetch command.
func getFetchCmd() *cobra.Command {
	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch fungal species from the GBIF species API",
		Long: `Fetch accepted fungal species from the GBIF species API.

Pages of species pass the same filter as the TSV import and are upserted,
so the fetch is safe to run again. Failed requests are retried with a
growing delay.

Examples:
  fungidb fetch
  fungidb fetch --lookup --english`,
		RunE: withErrorMessage(runFetch),
	}

	fetchCmd.Flags().IntP("page-size", "p", 0, "number of species per page")
	fetchCmd.Flags().BoolP("lookup", "l", false,
		"query vernacular names of species without Spanish names")
	fetchCmd.Flags().BoolP("english", "e", false,
		"use English names when Spanish ones are absent")

	return fetchCmd
}

func runFetch(cmd *cobra.Command, _ []string) error {
	applyFlags(cmd,
		intFlag("page-size", config.OptGBIFPageSize),
		boolFlag("lookup", config.OptGBIFVernacularLookup),
		boolFlag("english", config.OptGBIFEnglishFallback),
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

	_, err = iogbif.New(cfg, s).Fetch(ctx)
	return err
}
