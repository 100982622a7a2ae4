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
	"context"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getCreateCmd returns the create command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getCreateCmd() *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create collections, tables and indexes",
		Long: `Prepare the storage of FungiDB.

This command:
  1. Connects to the backend from configuration (mongo, postgres, memory)
  2. MongoDB: creates indexes on normalized names, user emails and notes
  3. PostgreSQL: creates tables with GORM AutoMigrate

The command is idempotent, existing data is kept.

Examples:
  fungidb create
  FUNGIDB_DATABASE_BACKEND=postgres fungidb create`,
		RunE: withErrorMessage(runCreate),
	}

	return createCmd
}

func runCreate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	s, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore(s)

	if err = s.Init(ctx); err != nil {
		return err
	}

	n, err := s.CountSpecies(ctx)
	if err != nil {
		return err
	}

	gn.Info("Storage of <em>%s</em> backend is ready, species: %d",
		cfg.Database.Backend, n)
	gn.Info(`Next steps:
  - Run '<em>fungidb import</em>' to load species from TSV files
  - Run '<em>fungidb fetch</em>' to load species from GBIF
  - Run '<em>fungidb serve</em>' to start the REST API
`)
	return nil
}
