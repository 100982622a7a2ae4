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
	"github.com/gnames/fungidb/internal/ioapi"
	"github.com/gnames/fungidb/pkg/config"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getServeCmd returns the serve command.
func getServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API of the field notebook",
		Long: `Run the REST API used by the mobile field notebook.

Routes:
  GET    /health                 database health
  GET    /metrics                Prometheus metrics
  POST   /register               create a user
  POST   /login                  check credentials
  GET    /fungi/search?q=        search species by partial names
  POST   /fungi                  save a species
  GET    /notes?userId=          list notes
  POST   /notes                  create a note
  PUT    /notes/{id}             update a note
  DELETE /notes/{id}             delete a note

/cuaderno is an alias of /notes.

Examples:
  fungidb serve
  fungidb serve -p 8080`,
		RunE: withErrorMessage(runServe),
	}

	serveCmd.Flags().IntP("port", "p", 0, "port of the REST API")
	serveCmd.Flags().String("host", "", "interface to listen on")

	return serveCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	applyFlags(cmd,
		intFlag("port", config.OptServerPort),
		stringFlag("host", config.OptServerHost),
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

	gn.Info("REST API is listening on <em>%s:%d</em>",
		cfg.Server.Host, cfg.Server.Port)
	return ioapi.New(cfg, s).Run(ctx)
}
